package models

// The master taxonomy tables are administered by the upstream LMS; this
// service only reads them. Ids are 32-character hex strings and timestamps
// are epoch milliseconds, matching the upstream schema.

// TaxonomyAudit carries the flags and audit columns shared by every
// taxonomy table.
type TaxonomyAudit struct {
	Active         bool   `json:"active" gorm:"column:active"`
	Deleted        bool   `json:"deleted" gorm:"column:deleted"`
	CreatedAt      int64  `json:"createdAt" gorm:"column:created_at"`
	CreatedBy      string `json:"createdBy" gorm:"column:created_by"`
	ModifiedAt     int64  `json:"modifiedAt" gorm:"column:modified_at"`
	LastModifiedBy string `json:"lastModifiedBy" gorm:"column:last_modified_by"`
}

// Board is an education board (CBSE, ICSE, ...)
type Board struct {
	ID            string `json:"id" gorm:"column:id;primaryKey;type:char(32)"`
	Board         string `json:"board" gorm:"column:board"`
	TaxonomyAudit `gorm:"embedded"`
}

func (Board) TableName() string { return "boards" }

// Grade is a school grade with a display ordering
type Grade struct {
	ID            string `json:"id" gorm:"column:id;primaryKey;type:char(32)"`
	Grade         string `json:"grade" gorm:"column:grade"`
	SortOrder     int    `json:"sortOrder" gorm:"column:sort_order"`
	TaxonomyAudit `gorm:"embedded"`
}

func (Grade) TableName() string { return "grades" }

// Subject is a taught subject
type Subject struct {
	ID            string `json:"id" gorm:"column:id;primaryKey;type:char(32)"`
	Subject       string `json:"subject" gorm:"column:subject"`
	TaxonomyAudit `gorm:"embedded"`
}

func (Subject) TableName() string { return "subjects" }

// Chapter belongs to a board, grade and subject
type Chapter struct {
	ID            string `json:"id" gorm:"column:id;primaryKey;type:char(32)"`
	Chapter       string `json:"chapter" gorm:"column:chapter"`
	BoardID       string `json:"boardId" gorm:"column:board_id;type:char(32)"`
	GradeID       string `json:"gradeId" gorm:"column:grade_id;type:char(32)"`
	SubjectID     string `json:"subjectId" gorm:"column:subject_id;type:char(32)"`
	TaxonomyAudit `gorm:"embedded"`
}

func (Chapter) TableName() string { return "chapters" }

// SubTopic belongs to a subject
type SubTopic struct {
	ID            string `json:"id" gorm:"column:id;primaryKey;type:char(32)"`
	SubTopic      string `json:"subTopic" gorm:"column:sub_topic"`
	SubjectID     string `json:"subjectId" gorm:"column:subject_id;type:char(32)"`
	TaxonomyAudit `gorm:"embedded"`
}

func (SubTopic) TableName() string { return "sub_topics" }

// SubjectMapping links a board+grade pair to the subjects offered for it.
type SubjectMapping struct {
	ID             string `json:"id" gorm:"column:id;primaryKey;type:char(32)"`
	SkilledSubject bool   `json:"skilledSubject" gorm:"column:skilled_subject;default:true"`
	BoardID        string `json:"boardId" gorm:"column:boards_id;type:char(32)"`
	GradeID        string `json:"gradeId" gorm:"column:grades_id;type:char(32)"`
	SubTopicID     string `json:"subTopicId" gorm:"column:sub_topics_id;type:char(32)"`
	SubjectID      string `json:"subjectId" gorm:"column:subjects_id;type:char(32)"`
	TaxonomyAudit  `gorm:"embedded"`
}

func (SubjectMapping) TableName() string { return "subject_mapping" }
