// Package filters holds the curriculum cascading-filter state machine:
// five dependent selections (board, grade, subject, chapter, subtopic)
// whose option fetches are gated on state transitions rather than ad hoc
// initialization flags.
package filters

import (
	"errors"
	"fmt"
	"sync"
)

// State of the filter machine.
type State string

const (
	StateIdle      State = "idle"
	StateHydrating State = "hydrating"
	StateReady     State = "ready"
	StateSaving    State = "saving"
)

// Level identifies one of the dependent selections.
type Level string

const (
	LevelBoard    Level = "board"
	LevelGrade    Level = "grade"
	LevelSubject  Level = "subject"
	LevelChapter  Level = "chapter"
	LevelSubtopic Level = "subtopic"
)

// Option is one selectable taxonomy node.
type Option struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Mapping is an asset's saved curriculum placement.
type Mapping struct {
	GradeID    string `json:"gradeId"`
	SubjectID  string `json:"subjectId"`
	ChapterID  string `json:"chapterId"`
	SubtopicID string `json:"subtopicId"`
}

// AssetMeta is the denormalized asset info written alongside a mapping.
type AssetMeta struct {
	Title     string `json:"title"`
	MimeType  string `json:"mimeType"`
	AssetType string `json:"assetType"`
	SubType   string `json:"subType"`
}

// Selection is the current pick at every level.
type Selection struct {
	Board    string `json:"board"`
	Grade    string `json:"grade"`
	Subject  string `json:"subject"`
	Chapter  string `json:"chapter"`
	Subtopic string `json:"subtopic"`
}

// OptionSource supplies the dependent option lists.
type OptionSource interface {
	Boards() ([]Option, error)
	Grades() ([]Option, error)
	Subjects(boardID, gradeID string) ([]Option, error)
	Chapters(subjectID, boardID, gradeID string) ([]Option, error)
	Subtopics(subjectID string) ([]Option, error)
	// BoardForChapter resolves which board a chapter belongs to, used to
	// restore the board selection when hydrating an existing mapping.
	BoardForChapter(chapterID string) (string, error)
}

// MappingStore reads and writes an asset's placement.
type MappingStore interface {
	Load(assetID string) (*Mapping, error)
	Save(assetID string, m Mapping, createdBy string, meta AssetMeta) error
}

var (
	ErrNotReady     = errors.New("filter machine is not ready")
	ErrIncomplete   = errors.New("subject and chapter must both be selected")
	ErrUnknownLevel = errors.New("unknown filter level")
)

// Machine drives one asset's filter chain. Safe for concurrent use by the
// session-scoped HTTP handlers.
type Machine struct {
	mu sync.Mutex

	src   OptionSource
	store MappingStore

	state   State
	assetID string
	mapped  bool

	sel Selection

	boards    []Option
	grades    []Option
	subjects  []Option
	chapters  []Option
	subtopics []Option
}

// Snapshot is the serializable view the UI renders from.
type Snapshot struct {
	State     State     `json:"state"`
	AssetID   string    `json:"assetId"`
	Mapped    bool      `json:"mapped"`
	CanSave   bool      `json:"canSave"`
	Selection Selection `json:"selection"`
	Boards    []Option  `json:"boards"`
	Grades    []Option  `json:"grades"`
	Subjects  []Option  `json:"subjects"`
	Chapters  []Option  `json:"chapters"`
	Subtopics []Option  `json:"subtopics"`
}

func NewMachine(src OptionSource, store MappingStore) *Machine {
	return &Machine{src: src, store: store, state: StateIdle}
}

// Load hydrates the machine for one asset. An existing mapping pre-selects
// the whole chain top-down; its chapters and subtopics are fetched once, in
// parallel, instead of replaying the normal cascade.
func (m *Machine) Load(assetID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = StateHydrating
	m.assetID = assetID
	m.sel = Selection{}
	m.subjects, m.chapters, m.subtopics = nil, nil, nil
	m.mapped = false

	var err error
	if m.boards, err = m.src.Boards(); err != nil {
		m.state = StateIdle
		return err
	}
	if m.grades, err = m.src.Grades(); err != nil {
		m.state = StateIdle
		return err
	}

	mapping, err := m.store.Load(assetID)
	if err != nil {
		m.state = StateIdle
		return err
	}
	if mapping == nil {
		m.state = StateReady
		return nil
	}

	var (
		wg           sync.WaitGroup
		chapters     []Option
		subtopics    []Option
		chErr, stErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		chapters, chErr = m.src.Chapters(mapping.SubjectID, "", mapping.GradeID)
	}()
	go func() {
		defer wg.Done()
		subtopics, stErr = m.src.Subtopics(mapping.SubjectID)
	}()
	wg.Wait()
	if chErr != nil {
		m.state = StateIdle
		return chErr
	}
	if stErr != nil {
		m.state = StateIdle
		return stErr
	}

	board, err := m.src.BoardForChapter(mapping.ChapterID)
	if err != nil {
		board = ""
	}

	m.sel = Selection{
		Board:    board,
		Grade:    mapping.GradeID,
		Subject:  mapping.SubjectID,
		Chapter:  mapping.ChapterID,
		Subtopic: mapping.SubtopicID,
	}
	m.chapters = chapters
	m.subtopics = subtopics
	m.mapped = true
	m.state = StateReady
	return nil
}

// Select applies one pick. Everything downstream of the changed level is
// cleared, selections and option lists both, before the one fetch the new
// selection enables runs.
func (m *Machine) Select(level Level, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateReady {
		return ErrNotReady
	}

	switch level {
	case LevelBoard:
		m.sel.Board = id
		m.clearFromSubject()
		return m.fetchSubjects()

	case LevelGrade:
		m.sel.Grade = id
		m.clearFromSubject()
		return m.fetchSubjects()

	case LevelSubject:
		m.sel.Subject = id
		m.sel.Chapter, m.sel.Subtopic = "", ""
		m.chapters, m.subtopics = nil, nil
		if id == "" {
			return nil
		}
		return m.fetchChaptersAndSubtopics()

	case LevelChapter:
		m.sel.Chapter = id
		m.sel.Subtopic = ""
		return nil

	case LevelSubtopic:
		m.sel.Subtopic = id
		return nil
	}

	return fmt.Errorf("%w: %s", ErrUnknownLevel, level)
}

func (m *Machine) clearFromSubject() {
	m.sel.Subject, m.sel.Chapter, m.sel.Subtopic = "", "", ""
	m.subjects, m.chapters, m.subtopics = nil, nil, nil
}

func (m *Machine) fetchSubjects() error {
	if m.sel.Board == "" || m.sel.Grade == "" {
		return nil
	}
	subjects, err := m.src.Subjects(m.sel.Board, m.sel.Grade)
	if err != nil {
		return err
	}
	m.subjects = subjects
	return nil
}

func (m *Machine) fetchChaptersAndSubtopics() error {
	var (
		wg           sync.WaitGroup
		chapters     []Option
		subtopics    []Option
		chErr, stErr error
	)

	boardID := ""
	if m.sel.Board != "" && m.sel.Grade != "" {
		boardID = m.sel.Board
	}

	wg.Add(2)
	go func() {
		defer wg.Done()
		chapters, chErr = m.src.Chapters(m.sel.Subject, boardID, m.sel.Grade)
	}()
	go func() {
		defer wg.Done()
		subtopics, stErr = m.src.Subtopics(m.sel.Subject)
	}()
	wg.Wait()

	if chErr != nil {
		return chErr
	}
	if stErr != nil {
		return stErr
	}
	m.chapters = chapters
	m.subtopics = subtopics
	return nil
}

// CanSave reports whether a mapping can be submitted: subject and chapter
// selected, nothing else required.
func (m *Machine) CanSave() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sel.Subject != "" && m.sel.Chapter != ""
}

// Save submits the upsert. Success marks the asset mapped; failure leaves
// it unmapped and returns the error. Concurrent saves are not coordinated,
// the last write wins.
func (m *Machine) Save(createdBy string, meta AssetMeta) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateReady {
		return ErrNotReady
	}
	if m.sel.Subject == "" || m.sel.Chapter == "" {
		return ErrIncomplete
	}

	m.state = StateSaving
	err := m.store.Save(m.assetID, Mapping{
		GradeID:    m.sel.Grade,
		SubjectID:  m.sel.Subject,
		ChapterID:  m.sel.Chapter,
		SubtopicID: m.sel.Subtopic,
	}, createdBy, meta)
	m.state = StateReady

	if err != nil {
		m.mapped = false
		return err
	}
	m.mapped = true
	return nil
}

// Snapshot returns the current view of the machine.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Snapshot{
		State:     m.state,
		AssetID:   m.assetID,
		Mapped:    m.mapped,
		CanSave:   m.sel.Subject != "" && m.sel.Chapter != "",
		Selection: m.sel,
		Boards:    m.boards,
		Grades:    m.grades,
		Subjects:  m.subjects,
		Chapters:  m.chapters,
		Subtopics: m.subtopics,
	}
}
