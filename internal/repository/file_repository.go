package repository

import (
	"strings"

	"github.com/yukikurage/office-task-api/internal/constants"
	"github.com/yukikurage/office-task-api/internal/database"
	"github.com/yukikurage/office-task-api/internal/models"
)

type identified[K comparable] interface {
	RecordID() K
}

// fileCollection implements the shared CRUD steps over one JSON array file.
type fileCollection[K comparable, T identified[K]] struct {
	store *database.FileStore
	name  string
}

func (c fileCollection[K, T]) list() ([]T, error) {
	return database.View[T](c.store, c.name)
}

func (c fileCollection[K, T]) find(id K) (*T, error) {
	records, err := c.list()
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].RecordID() == id {
			return &records[i], nil
		}
	}
	return nil, ErrNotFound
}

// insert appends rec unless check rejects it against the current records.
func (c fileCollection[K, T]) insert(rec T, check func(records []T) error) error {
	return database.Mutate(c.store, c.name, func(records []T) ([]T, error) {
		for _, existing := range records {
			if existing.RecordID() == rec.RecordID() {
				return nil, ErrDuplicateID
			}
		}
		if check != nil {
			if err := check(records); err != nil {
				return nil, err
			}
		}
		return append(records, rec), nil
	})
}

func (c fileCollection[K, T]) update(id K, mutate func(rec *T, others []T) error) (*T, error) {
	var updated T
	err := database.Mutate(c.store, c.name, func(records []T) ([]T, error) {
		idx := indexOf[K](records, id)
		if idx < 0 {
			return nil, ErrNotFound
		}

		rec := records[idx]
		if err := mutate(&rec, without(records, idx)); err != nil {
			return nil, err
		}
		records[idx] = rec
		updated = rec
		return records, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c fileCollection[K, T]) remove(id K, guard func(rec *T, others []T) error) error {
	return database.Mutate(c.store, c.name, func(records []T) ([]T, error) {
		idx := indexOf[K](records, id)
		if idx < 0 {
			return nil, ErrNotFound
		}

		others := without(records, idx)
		if guard != nil {
			if err := guard(&records[idx], others); err != nil {
				return nil, err
			}
		}
		return others, nil
	})
}

func indexOf[K comparable, T identified[K]](records []T, id K) int {
	for i := range records {
		if records[i].RecordID() == id {
			return i
		}
	}
	return -1
}

func without[T any](records []T, idx int) []T {
	out := make([]T, 0, len(records)-1)
	out = append(out, records[:idx]...)
	return append(out, records[idx+1:]...)
}

// FileTaskRepository stores tasks in tasks.json
type FileTaskRepository struct {
	tasks fileCollection[int64, models.Task]
}

// NewFileTaskRepository creates a TaskRepository backed by the flat-file store
func NewFileTaskRepository(store *database.FileStore) TaskRepository {
	return &FileTaskRepository{tasks: fileCollection[int64, models.Task]{store: store, name: constants.TasksFile}}
}

func (r *FileTaskRepository) List() ([]models.Task, error) {
	return r.tasks.list()
}

func (r *FileTaskRepository) FindByID(id int64) (*models.Task, error) {
	return r.tasks.find(id)
}

func (r *FileTaskRepository) Create(task *models.Task) error {
	return r.tasks.insert(*task, nil)
}

func (r *FileTaskRepository) Update(id int64, mutate func(task *models.Task) error) (*models.Task, error) {
	return r.tasks.update(id, func(task *models.Task, _ []models.Task) error {
		return mutate(task)
	})
}

func (r *FileTaskRepository) Delete(id int64) error {
	return r.tasks.remove(id, nil)
}

// FileComplaintRepository stores complaints in complaints.json
type FileComplaintRepository struct {
	complaints fileCollection[int64, models.Complaint]
}

// NewFileComplaintRepository creates a ComplaintRepository backed by the flat-file store
func NewFileComplaintRepository(store *database.FileStore) ComplaintRepository {
	return &FileComplaintRepository{complaints: fileCollection[int64, models.Complaint]{store: store, name: constants.ComplaintsFile}}
}

func (r *FileComplaintRepository) List() ([]models.Complaint, error) {
	return r.complaints.list()
}

func (r *FileComplaintRepository) Create(complaint *models.Complaint) error {
	return r.complaints.insert(*complaint, nil)
}

// FileUserRepository stores users in users.json
type FileUserRepository struct {
	users fileCollection[string, models.User]
}

// NewFileUserRepository creates a UserRepository backed by the flat-file store
func NewFileUserRepository(store *database.FileStore) UserRepository {
	return &FileUserRepository{users: fileCollection[string, models.User]{store: store, name: constants.UsersFile}}
}

func (r *FileUserRepository) List() ([]models.User, error) {
	return r.users.list()
}

func (r *FileUserRepository) FindByID(id string) (*models.User, error) {
	return r.users.find(id)
}

func (r *FileUserRepository) FindByUsername(username string) (*models.User, error) {
	users, err := r.users.list()
	if err != nil {
		return nil, err
	}
	for i := range users {
		if strings.EqualFold(users[i].Username, username) {
			return &users[i], nil
		}
	}
	return nil, ErrNotFound
}

func (r *FileUserRepository) Create(user *models.User) error {
	return r.users.insert(*user, func(users []models.User) error {
		if usernameTaken(users, user.Username) {
			return ErrDuplicateUsername
		}
		return nil
	})
}

func (r *FileUserRepository) Update(id string, mutate func(user *models.User, others []models.User) error) (*models.User, error) {
	return r.users.update(id, func(user *models.User, others []models.User) error {
		if err := mutate(user, others); err != nil {
			return err
		}
		if usernameTaken(others, user.Username) {
			return ErrDuplicateUsername
		}
		return nil
	})
}

func (r *FileUserRepository) Delete(id string, guard func(user *models.User, others []models.User) error) error {
	return r.users.remove(id, guard)
}

func usernameTaken(users []models.User, username string) bool {
	for _, u := range users {
		if strings.EqualFold(u.Username, username) {
			return true
		}
	}
	return false
}

// NewFileSet returns repositories for every collection in store.
func NewFileSet(store *database.FileStore) Set {
	return Set{
		Tasks:      NewFileTaskRepository(store),
		Users:      NewFileUserRepository(store),
		Complaints: NewFileComplaintRepository(store),
	}
}
