// Package filterflowController exposes the curriculum filter machine per
// signed-in session, so the UI drives selections through the server
// instead of replaying cascade fetches itself.
package filterflowController

import (
	"errors"
	"log"
	"strings"
	"sync"

	curriculumController "tcepreview/controllers/curriculum"
	"tcepreview/database"
	"tcepreview/filters"
	"tcepreview/models"
	"tcepreview/models/content"
	"tcepreview/models/users"
	curriculumValidator "tcepreview/validators/curriculum"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var (
	machinesMu sync.Mutex
	machines   = map[string]*filters.Machine{} // sid -> machine
)

// dbOptionSource reads option lists from the master taxonomy.
type dbOptionSource struct{}

func (dbOptionSource) Boards() ([]filters.Option, error) {
	rows := []filters.Option{}
	err := database.Database.Master.
		Model(&models.Board{}).
		Select("id, board AS name").
		Where("active = ? AND deleted = ?", true, false).
		Scan(&rows).Error
	return rows, err
}

func (dbOptionSource) Grades() ([]filters.Option, error) {
	rows := []filters.Option{}
	err := database.Database.Master.
		Model(&models.Grade{}).
		Select("id, grade AS name").
		Where("active = ? AND deleted = ?", true, false).
		Order("sort_order").
		Scan(&rows).Error
	return rows, err
}

func (dbOptionSource) Subjects(boardID, gradeID string) ([]filters.Option, error) {
	mapped := database.Database.Master.
		Model(&models.SubjectMapping{}).
		Select("subjects_id").
		Where("boards_id = ? AND grades_id = ? AND active = ? AND deleted = ?",
			boardID, gradeID, true, false)

	rows := []filters.Option{}
	err := database.Database.Master.
		Model(&models.Subject{}).
		Select("id, subject AS name").
		Where("active = ? AND deleted = ?", true, false).
		Where("id IN (?)", mapped).
		Scan(&rows).Error
	return rows, err
}

func (dbOptionSource) Chapters(subjectID, boardID, gradeID string) ([]filters.Option, error) {
	query := database.Database.Master.
		Model(&models.Chapter{}).
		Select("id, chapter AS name").
		Where("subject_id = ? AND active = ? AND deleted = ?", subjectID, true, false)
	if boardID != "" {
		query = query.Where("board_id = ?", boardID)
	}
	if gradeID != "" {
		query = query.Where("grade_id = ?", gradeID)
	}

	rows := []filters.Option{}
	err := query.Scan(&rows).Error
	return rows, err
}

func (dbOptionSource) Subtopics(subjectID string) ([]filters.Option, error) {
	rows := []filters.Option{}
	err := database.Database.Master.
		Model(&models.SubTopic{}).
		Select("id, sub_topic AS name").
		Where("subject_id = ? AND active = ? AND deleted = ?", subjectID, true, false).
		Scan(&rows).Error
	return rows, err
}

func (dbOptionSource) BoardForChapter(chapterID string) (string, error) {
	var chapter models.Chapter
	err := database.Database.Master.
		Select("board_id").
		Where("id = ?", chapterID).
		First(&chapter).Error
	if err != nil {
		return "", err
	}
	return chapter.BoardID, nil
}

// dbMappingStore reads and writes placements through the content store.
type dbMappingStore struct{}

func (dbMappingStore) Load(assetID string) (*filters.Mapping, error) {
	var row content.TceAssetMapping
	err := database.Database.Content.
		Where("asset_id = ?", assetID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &filters.Mapping{
		GradeID:    row.GradeID,
		SubjectID:  row.SubjectID,
		ChapterID:  row.ChapterID,
		SubtopicID: row.SubtopicID,
	}, nil
}

func (dbMappingStore) Save(assetID string, m filters.Mapping, createdBy string, meta filters.AssetMeta) error {
	return curriculumController.UpsertMappingAndAsset(&curriculumValidator.MappingRequest{
		AssetID:    assetID,
		GradeID:    m.GradeID,
		SubjectID:  m.SubjectID,
		ChapterID:  m.ChapterID,
		SubtopicID: m.SubtopicID,
		CreatedBy:  createdBy,
		Title:      meta.Title,
		MimeType:   meta.MimeType,
		AssetType:  meta.AssetType,
		SubType:    meta.SubType,
	})
}

func machineFor(sid string) *filters.Machine {
	machinesMu.Lock()
	defer machinesMu.Unlock()

	if m, ok := machines[sid]; ok {
		return m
	}
	m := filters.NewMachine(dbOptionSource{}, dbMappingStore{})
	machines[sid] = m
	return m
}

// Load hydrates the session's filter machine for one asset.
func Load(c *fiber.Ctx) error {
	session, _ := c.Locals("session").(*users.Session)

	reqData := new(struct {
		AssetID string `json:"assetId"`
	})
	if err := c.BodyParser(reqData); err != nil || strings.TrimSpace(reqData.AssetID) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing assetId"})
	}

	machine := machineFor(session.SID)
	if err := machine.Load(strings.TrimSpace(reqData.AssetID)); err != nil {
		log.Printf("Error hydrating filter for asset %s: %v", reqData.AssetID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load filter state"})
	}

	return c.JSON(machine.Snapshot())
}

// Select applies one dropdown pick and returns the updated snapshot.
func Select(c *fiber.Ctx) error {
	session, _ := c.Locals("session").(*users.Session)

	reqData := new(struct {
		Level string `json:"level"`
		ID    string `json:"id"`
	})
	if err := c.BodyParser(reqData); err != nil || reqData.Level == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing level"})
	}

	machine := machineFor(session.SID)
	if err := machine.Select(filters.Level(reqData.Level), reqData.ID); err != nil {
		switch {
		case errors.Is(err, filters.ErrNotReady), errors.Is(err, filters.ErrUnknownLevel):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		default:
			log.Printf("Error selecting %s=%s: %v", reqData.Level, reqData.ID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update filter"})
		}
	}

	return c.JSON(machine.Snapshot())
}

// Save submits the mapping for the hydrated asset. The submitter identity
// comes from the session profile.
func Save(c *fiber.Ctx) error {
	session, _ := c.Locals("session").(*users.Session)

	reqData := new(struct {
		Title     string `json:"title"`
		MimeType  string `json:"mimeType"`
		AssetType string `json:"assetType"`
		SubType   string `json:"subType"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	createdBy, _ := c.Locals("userName").(string)
	if createdBy == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No submitter identity on session"})
	}

	machine := machineFor(session.SID)
	err := machine.Save(createdBy, filters.AssetMeta{
		Title:     reqData.Title,
		MimeType:  reqData.MimeType,
		AssetType: reqData.AssetType,
		SubType:   reqData.SubType,
	})
	if err != nil {
		switch {
		case errors.Is(err, filters.ErrIncomplete), errors.Is(err, filters.ErrNotReady):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		default:
			log.Printf("Error saving filter mapping: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save mapping"})
		}
	}

	return c.JSON(machine.Snapshot())
}

// State returns the session's current filter snapshot.
func State(c *fiber.Ctx) error {
	session, _ := c.Locals("session").(*users.Session)
	return c.JSON(machineFor(session.SID).Snapshot())
}
