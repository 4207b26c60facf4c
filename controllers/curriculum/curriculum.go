package curriculumController

import (
	"tcepreview/database"
	"tcepreview/models"

	"github.com/gofiber/fiber/v2"
)

// Item is the {id,name} shape every curriculum dropdown consumes.
type Item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GradeItem adds the display ordering grades carry.
type GradeItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SortOrder int    `json:"sortOrder"`
}

// GetBoards returns all active boards.
func GetBoards(c *fiber.Ctx) error {
	rows := []Item{}
	err := database.Database.Master.
		Model(&models.Board{}).
		Select("id, board AS name").
		Where("active = ? AND deleted = ?", true, false).
		Scan(&rows).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load boards"})
	}
	return c.JSON(rows)
}

// GetGrades returns all active grades in display order.
func GetGrades(c *fiber.Ctx) error {
	rows := []GradeItem{}
	err := database.Database.Master.
		Model(&models.Grade{}).
		Select("id, grade AS name, sort_order").
		Where("active = ? AND deleted = ?", true, false).
		Order("sort_order").
		Scan(&rows).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load grades"})
	}
	return c.JSON(rows)
}

// GetSubjects returns active subjects. With both boardId and gradeId the
// list narrows to the subjects mapped to that board+grade pair; otherwise
// every active subject comes back.
func GetSubjects(c *fiber.Ctx) error {
	boardID := c.Query("boardId")
	gradeID := c.Query("gradeId")

	query := database.Database.Master.
		Model(&models.Subject{}).
		Select("id, subject AS name").
		Where("active = ? AND deleted = ?", true, false)

	if boardID != "" && gradeID != "" {
		mapped := database.Database.Master.
			Model(&models.SubjectMapping{}).
			Select("subjects_id").
			Where("boards_id = ? AND grades_id = ? AND active = ? AND deleted = ?",
				boardID, gradeID, true, false)
		query = query.Where("id IN (?)", mapped)
	}

	rows := []Item{}
	if err := query.Scan(&rows).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load subjects"})
	}
	return c.JSON(rows)
}

// GetChapters returns active chapters for a subject, optionally narrowed
// by board and grade. No subjectId short-circuits to [] without touching
// the database.
func GetChapters(c *fiber.Ctx) error {
	subjectID := c.Query("subjectId")
	if subjectID == "" {
		return c.JSON([]Item{})
	}

	query := database.Database.Master.
		Model(&models.Chapter{}).
		Select("id, chapter AS name").
		Where("subject_id = ? AND active = ? AND deleted = ?", subjectID, true, false)

	if boardID := c.Query("boardId"); boardID != "" {
		query = query.Where("board_id = ?", boardID)
	}
	if gradeID := c.Query("gradeId"); gradeID != "" {
		query = query.Where("grade_id = ?", gradeID)
	}

	rows := []Item{}
	if err := query.Scan(&rows).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load chapters"})
	}
	return c.JSON(rows)
}

// GetSubtopics returns active subtopics for a subject, or [] without a
// query when subjectId is missing.
func GetSubtopics(c *fiber.Ctx) error {
	subjectID := c.Query("subjectId")
	if subjectID == "" {
		return c.JSON([]Item{})
	}

	rows := []Item{}
	err := database.Database.Master.
		Model(&models.SubTopic{}).
		Select("id, sub_topic AS name").
		Where("subject_id = ? AND active = ? AND deleted = ?", subjectID, true, false).
		Scan(&rows).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load subtopics"})
	}
	return c.JSON(rows)
}
