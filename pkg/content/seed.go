package content

// Spec describes one collection: where it is stored, what it is seeded
// with and how new records are placed.
type Spec[T Entity] struct {
	Kind  Kind
	Key   string
	Order Ordering
	seed  func() []T
}

// Seed returns a fresh copy of the collection's initial dataset.
func (s Spec[T]) Seed() []T { return s.seed() }

func newSpec[T Entity](seed func() []T) Spec[T] {
	var zero T
	kind := zero.RecordKind()
	return Spec[T]{Kind: kind, Key: kind.Key(), Order: kind.Ordering(), seed: seed}
}

var (
	NewsSpec    = newSpec(seedNews)
	StaffSpec   = newSpec(seedStaff)
	FileSpec    = newSpec(seedFiles)
	MeetingSpec = newSpec(seedMeetings)
)

func seedNews() []Announcement {
	return []Announcement{
		{ID: 1, Date: "2025-11-27", Title: "114年度「人體研究倫理講習班」報名開始", Description: "地點：三重院區五樓視聽中心 | 時間：14:00-17:00"},
		{ID: 2, Date: "2025-11-20", Title: "公告本中心最新組織章程修訂", Description: "請至中心簡介或SOP專區下載最新版本。"},
	}
}

func seedStaff() []StaffMember {
	return []StaffMember{
		{ID: 1, Role: "主任委員", Name: "XXX 醫師", Description: "負責督導中心業務運作及綜理受試者保護相關事宜。", Icon: IconDoctor},
		{ID: 2, Role: "執行幹事", Name: "王建贏", Description: "負責行政業務聯繫、案件受理與排程。", Icon: IconUser},
	}
}

func seedFiles() []Document {
	return []Document{
		{ID: 1, Name: "01. 受試者保護中心設置辦法.pdf", Date: "2025/08/28", Type: DocPDF},
		{ID: 2, Name: "02. 利益衝突申報表.docx", Date: "2025/09/01", Type: DocWord},
		{ID: 3, Name: "03. 通報流程圖.pdf", Date: "2025/08/28", Type: DocPDF},
	}
}

func seedMeetings() []MeetingRecord {
	return []MeetingRecord{
		{ID: 1, Name: "114年度第一次中心會議", Date: "2025-01-15"},
		{ID: 2, Name: "113年度年終檢討會議", Date: "2024-12-20"},
	}
}
