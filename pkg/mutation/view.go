package mutation

import (
	"slices"

	"github.com/NTPCPHARMACY/HRPC/pkg/content"
)

// View is a snapshot of every collection, in display order.
type View struct {
	News     []content.Announcement  `json:"news"`
	Staff    []content.StaffMember   `json:"staff"`
	Files    []content.Document      `json:"files"`
	Meetings []content.MeetingRecord `json:"meetings"`
}

// Clone returns a deep copy of v.
func (v View) Clone() View {
	return View{
		News:     slices.Clone(v.News),
		Staff:    slices.Clone(v.Staff),
		Files:    slices.Clone(v.Files),
		Meetings: slices.Clone(v.Meetings),
	}
}

// Records returns the collection of kind as records.
func (v View) Records(kind content.Kind) []content.Record {
	switch kind {
	case content.KindNews:
		return asRecords(v.News)
	case content.KindStaff:
		return asRecords(v.Staff)
	case content.KindFile:
		return asRecords(v.Files)
	case content.KindMeeting:
		return asRecords(v.Meetings)
	}
	return nil
}

func asRecords[T content.Entity](list []T) []content.Record {
	out := make([]content.Record, len(list))
	for i, rec := range list {
		out[i] = rec
	}
	return out
}
