package content

// Enum value sets mirrored from the content-store schema. Stored as plain
// varchar here; postgres enforces the enum types on the live database.
const (
	AssetTypeGallery = "ASSET_GALLERY"
	AssetTypeMedia   = "ASSET_MEDIA"
	AssetTypePrint   = "ASSET_PRINT"

	DefaultAssetSubType = "VIDEO"
	DefaultAssetMime    = "MP4"

	ConsumerTeacher = "TEACHER"
	ConsumerStudent = "STUDENT"

	ContentTypeStudy    = "STUDY"
	ContentTypeRevision = "REVISION"
)

// ChapterAsset places one external media asset in a chapter. Rows are
// soft-deleted only (active/deleted flip), never removed.
type ChapterAsset struct {
	ID             string `json:"id" gorm:"column:id;primaryKey;type:char(32)"`
	Active         bool   `json:"active" gorm:"column:active"`
	Deleted        bool   `json:"deleted" gorm:"column:deleted"`
	CreatedAt      int64  `json:"createdAt" gorm:"column:created_at"`
	CreatedBy      string `json:"createdBy" gorm:"column:created_by"`
	ModifiedAt     int64  `json:"modifiedAt" gorm:"column:modified_at"`
	LastModifiedBy string `json:"lastModifiedBy" gorm:"column:last_modified_by"`

	AssetID         string `json:"assetId" gorm:"column:asset_id;index"`
	AssetMimeType   string `json:"assetMimeType" gorm:"column:asset_mime_type"`
	AssetSubType    string `json:"assetSubType" gorm:"column:asset_sub_type"`
	AssetType       string `json:"assetType" gorm:"column:asset_type"`
	ChapterID       string `json:"chapterId" gorm:"column:chapter_id"`
	ContentConsumer string `json:"contentConsumer" gorm:"column:content_consumer"`
	ContentType     string `json:"contentType" gorm:"column:content_type"`
	Title           string `json:"title" gorm:"column:title"`
}

func (ChapterAsset) TableName() string { return "chapter_assets" }
