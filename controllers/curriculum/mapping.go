package curriculumController

import (
	"errors"
	"log"
	"strings"
	"time"

	"tcepreview/database"
	"tcepreview/models/content"
	curriculumValidator "tcepreview/validators/curriculum"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetMapping returns an asset's saved placement, or JSON null when the
// asset is unmapped (or no assetId was given).
func GetMapping(c *fiber.Ctx) error {
	assetID := c.Query("assetId")
	if assetID == "" {
		return c.JSON(nil)
	}

	var row content.TceAssetMapping
	err := database.Database.Content.
		Where("asset_id = ?", assetID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(nil)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load mapping"})
	}

	return c.JSON(fiber.Map{
		"gradeId":    row.GradeID,
		"subjectId":  row.SubjectID,
		"chapterId":  row.ChapterID,
		"subtopicId": row.SubtopicID,
	})
}

// SaveMapping upserts the asset's placement and its chapter_assets row in
// one content-store transaction. One row per asset id in each table; a
// repeat save updates in place.
func SaveMapping(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedMapping").(*curriculumValidator.MappingRequest)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request data"})
	}

	if err := UpsertMappingAndAsset(reqData); err != nil {
		log.Printf("Error saving mapping for asset %s: %v", reqData.AssetID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save mapping"})
	}

	return c.JSON(fiber.Map{"ok": true})
}

// UpsertMappingAndAsset writes both content-store rows for one asset in a
// single transaction. Shared by the mapping endpoint and the filter flow.
func UpsertMappingAndAsset(req *curriculumValidator.MappingRequest) error {
	return database.Database.Content.Transaction(func(tx *gorm.DB) error {
		if err := upsertMapping(tx, req); err != nil {
			return err
		}
		return upsertChapterAsset(tx, req)
	})
}

func upsertMapping(tx *gorm.DB, req *curriculumValidator.MappingRequest) error {
	var existing content.TceAssetMapping
	err := tx.Where("asset_id = ?", req.AssetID).First(&existing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx.Create(&content.TceAssetMapping{
			ID:         newRowID(),
			AssetID:    req.AssetID,
			GradeID:    req.GradeID,
			SubjectID:  req.SubjectID,
			ChapterID:  req.ChapterID,
			SubtopicID: req.SubtopicID,
			CreatedBy:  req.CreatedBy,
		}).Error
	}
	if err != nil {
		return err
	}

	existing.GradeID = req.GradeID
	existing.SubjectID = req.SubjectID
	existing.ChapterID = req.ChapterID
	existing.SubtopicID = req.SubtopicID
	existing.CreatedBy = req.CreatedBy
	return tx.Save(&existing).Error
}

func upsertChapterAsset(tx *gorm.DB, req *curriculumValidator.MappingRequest) error {
	now := time.Now().UnixMilli()

	var existing content.ChapterAsset
	err := tx.Where("asset_id = ?", req.AssetID).First(&existing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx.Create(&content.ChapterAsset{
			ID:              newRowID(),
			Active:          true,
			Deleted:         false,
			CreatedAt:       now,
			CreatedBy:       req.CreatedBy,
			AssetID:         req.AssetID,
			AssetMimeType:   normalizeEnum(req.MimeType, content.DefaultAssetMime),
			AssetSubType:    normalizeEnum(req.SubType, content.DefaultAssetSubType),
			AssetType:       normalizeEnum(req.AssetType, content.AssetTypeMedia),
			ChapterID:       req.ChapterID,
			ContentConsumer: content.ConsumerTeacher,
			ContentType:     content.ContentTypeStudy,
			Title:           req.Title,
		}).Error
	}
	if err != nil {
		return err
	}

	existing.ChapterID = req.ChapterID
	existing.Title = req.Title
	existing.AssetMimeType = normalizeEnum(req.MimeType, content.DefaultAssetMime)
	existing.AssetSubType = normalizeEnum(req.SubType, content.DefaultAssetSubType)
	existing.AssetType = normalizeEnum(req.AssetType, content.AssetTypeMedia)
	existing.ModifiedAt = now
	existing.LastModifiedBy = req.CreatedBy
	return tx.Save(&existing).Error
}

// normalizeEnum maps free-text asset fields onto the content-store enum
// spelling: uppercased, hyphens as underscores, fixed default when blank.
func normalizeEnum(raw, fallback string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return fallback
	}
	return strings.ReplaceAll(strings.ToUpper(value), "-", "_")
}

// newRowID produces the 32-character ids the content store uses.
func newRowID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
