package content

// TceAssetMapping is the curriculum placement for one external asset id.
// One row per asset_id, enforced by the upsert in the mapping controller.
type TceAssetMapping struct {
	ID         string `json:"id" gorm:"column:id;primaryKey;type:char(32)"`
	AssetID    string `json:"assetId" gorm:"column:asset_id;index"`
	GradeID    string `json:"gradeId" gorm:"column:grade_id;type:char(32)"`
	SubjectID  string `json:"subjectId" gorm:"column:subject_id;type:char(32)"`
	ChapterID  string `json:"chapterId" gorm:"column:chapter_id;type:char(32)"`
	SubtopicID string `json:"subtopicId" gorm:"column:subtopic_id;type:char(32)"`
	CreatedBy  string `json:"createdBy" gorm:"column:created_by"`
}

func (TceAssetMapping) TableName() string { return "tce_asset_mapping" }
