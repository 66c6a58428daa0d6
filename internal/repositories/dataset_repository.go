package repositories

import (
	"sync"
	"time"

	"github.com/SAP-F-2025/learning-gap-service/internal/models"
)

// DatasetRepository holds the currently loaded attempt dataset. The service
// analyzes one dataset at a time; uploading a new one replaces the previous
// dataset wholesale.
type DatasetRepository interface {
	// ReplaceDataset swaps in a new dataset and returns its metadata.
	ReplaceDataset(name string, attempts []models.Attempt) DatasetInfo

	// GetByStudent returns the student's attempts sorted by timestamp.
	// False when no dataset is loaded or the student has no attempts.
	GetByStudent(studentID string) ([]models.Attempt, bool)

	// ListStudents returns student IDs in first-seen dataset order.
	ListStudents() []string

	// All returns every attempt in the dataset, grouped by nothing.
	All() []models.Attempt

	// Info returns metadata for the loaded dataset; false when none is
	// loaded.
	Info() (DatasetInfo, bool)
}

// DatasetInfo describes the loaded dataset.
type DatasetInfo struct {
	Name         string    `json:"name"`
	TotalRows    int       `json:"total_rows"`
	StudentCount int       `json:"student_count"`
	TopicCount   int       `json:"topic_count"`
	LoadedAt     time.Time `json:"loaded_at"`
}

type datasetRepository struct {
	mu        sync.RWMutex
	loaded    bool
	info      DatasetInfo
	attempts  []models.Attempt
	byStudent map[string][]models.Attempt
	students  []string
}

func NewDatasetRepository() DatasetRepository {
	return &datasetRepository{}
}

func (r *datasetRepository) ReplaceDataset(name string, attempts []models.Attempt) DatasetInfo {
	byStudent := make(map[string][]models.Attempt)
	students := models.StudentIDs(attempts)
	for id, group := range models.GroupByStudent(attempts) {
		byStudent[id] = models.SortByTimestamp(group)
	}

	info := DatasetInfo{
		Name:         name,
		TotalRows:    len(attempts),
		StudentCount: len(students),
		TopicCount:   len(models.Topics(attempts)),
		LoadedAt:     time.Now().UTC(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaded = true
	r.info = info
	r.attempts = attempts
	r.byStudent = byStudent
	r.students = students
	return info
}

func (r *datasetRepository) GetByStudent(studentID string) ([]models.Attempt, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.loaded {
		return nil, false
	}
	group, ok := r.byStudent[studentID]
	if !ok {
		return nil, false
	}
	out := make([]models.Attempt, len(group))
	copy(out, group)
	return out, true
}

func (r *datasetRepository) ListStudents() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.students))
	copy(out, r.students)
	return out
}

func (r *datasetRepository) All() []models.Attempt {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Attempt, len(r.attempts))
	copy(out, r.attempts)
	return out
}

func (r *datasetRepository) Info() (DatasetInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.info, r.loaded
}
