// Package jsondb is a storage backend that keeps users and projects in memory
// and persists them to a JSON file on Close.
package jsondb

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/thoas/go-funk"

	"github.com/patric-chuzhbe/slidr/internal/models"
)

type JSONDB struct {
	fileName string
	mutex    sync.RWMutex
	Cache    CacheStruct
}

type UserRecord struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type ProjectRecord struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	UserID  int64  `json:"userId"`
}

type CacheStruct struct {
	Users         map[int64]*UserRecord    `json:"users"`
	Projects      map[int64]*ProjectRecord `json:"projects"`
	NextUserID    int64                    `json:"nextUserId"`
	NextProjectID int64                    `json:"nextProjectId"`
}

// NewCache returns an empty cache whose identifiers start at 1.
func NewCache() CacheStruct {
	return CacheStruct{
		Users:         map[int64]*UserRecord{},
		Projects:      map[int64]*ProjectRecord{},
		NextUserID:    1,
		NextProjectID: 1,
	}
}

func writeToJSONFile(fileName string, cache interface{}) error {
	jsonData, err := json.MarshalIndent(cache, "", "\t")
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %w", err)
	}

	if err := os.WriteFile(fileName, jsonData, 0644); err != nil {
		return fmt.Errorf("error writing to file: %w", err)
	}

	return nil
}

func parseJSONFile(fileName string, cache *CacheStruct) error {
	file, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	return json.NewDecoder(file).Decode(cache)
}

// New loads the database from fileName, creating the file when it does not exist yet.
func New(fileName string) (*JSONDB, error) {
	db := &JSONDB{
		fileName: fileName,
		Cache:    NewCache(),
	}

	err := parseJSONFile(db.fileName, &db.Cache)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		if err := writeToJSONFile(fileName, db.Cache); err != nil {
			return nil, err
		}
	}

	if db.Cache.Users == nil {
		db.Cache.Users = map[int64]*UserRecord{}
	}
	if db.Cache.Projects == nil {
		db.Cache.Projects = map[int64]*ProjectRecord{}
	}

	return db, nil
}

func (db *JSONDB) Ping(ctx context.Context) error {
	return nil
}

// Close flushes the cache to the backing file.
func (db *JSONDB) Close() error {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	if db.fileName == "" {
		return nil
	}

	return writeToJSONFile(db.fileName, db.Cache)
}

func (db *JSONDB) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	record, ok := db.findUserRecordByEmail(email)
	if !ok {
		return nil, models.ErrUserNotFound
	}

	return record.toModel(), nil
}

func (db *JSONDB) FindUserByID(ctx context.Context, userID int64) (*models.User, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	record, ok := db.Cache.Users[userID]
	if !ok {
		return nil, models.ErrUserNotFound
	}

	return record.toModel(), nil
}

func (db *JSONDB) SaveUser(ctx context.Context, usr *models.User) (*models.User, error) {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	if existing, ok := db.findUserRecordByEmail(usr.Email); ok && existing.ID != usr.ID {
		return nil, models.ErrDuplicateEmail
	}

	record := &UserRecord{
		ID:        usr.ID,
		FirstName: usr.FirstName,
		LastName:  usr.LastName,
		Email:     usr.Email,
		Password:  usr.Password,
	}
	if record.ID == 0 {
		record.ID = db.Cache.NextUserID
		db.Cache.NextUserID++
	} else if _, ok := db.Cache.Users[record.ID]; !ok {
		return nil, models.ErrUserNotFound
	}
	db.Cache.Users[record.ID] = record

	return record.toModel(), nil
}

// DeleteUser removes the user and cascades to its projects.
func (db *JSONDB) DeleteUser(ctx context.Context, usr *models.User) error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	if _, ok := db.Cache.Users[usr.ID]; !ok {
		return models.ErrUserNotFound
	}
	for _, project := range db.projectRecordsByUser(usr.ID) {
		delete(db.Cache.Projects, project.ID)
	}
	delete(db.Cache.Users, usr.ID)

	return nil
}

func (db *JSONDB) FindProjectByID(ctx context.Context, projectID int64) (*models.Project, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	record, ok := db.Cache.Projects[projectID]
	if !ok {
		return nil, models.ErrProjectNotFound
	}
	project := db.projectToModel(record)

	return &project, nil
}

func (db *JSONDB) FindProjectsByUser(ctx context.Context, userID int64) ([]models.Project, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	records := db.projectRecordsByUser(userID)
	result := make([]models.Project, 0, len(records))
	for _, record := range records {
		result = append(result, db.projectToModel(record))
	}

	return result, nil
}

func (db *JSONDB) SaveProject(ctx context.Context, project *models.Project) (*models.Project, error) {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	if project.User == nil {
		return nil, models.ErrUserNotFound
	}

	if project.ID == 0 {
		if _, ok := db.Cache.Users[project.User.ID]; !ok {
			return nil, models.ErrUserNotFound
		}
		record := &ProjectRecord{
			ID:      db.Cache.NextProjectID,
			Title:   project.Title,
			Content: project.Content,
			UserID:  project.User.ID,
		}
		db.Cache.NextProjectID++
		db.Cache.Projects[record.ID] = record
		saved := db.projectToModel(record)

		return &saved, nil
	}

	record, ok := db.Cache.Projects[project.ID]
	if !ok {
		return nil, models.ErrProjectNotFound
	}
	record.Title = project.Title
	record.Content = project.Content
	saved := db.projectToModel(record)

	return &saved, nil
}

func (db *JSONDB) DeleteProject(ctx context.Context, project *models.Project) error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	if _, ok := db.Cache.Projects[project.ID]; !ok {
		return models.ErrProjectNotFound
	}
	delete(db.Cache.Projects, project.ID)

	return nil
}

func (db *JSONDB) CountUsers(ctx context.Context) (int64, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	return int64(len(db.Cache.Users)), nil
}

func (db *JSONDB) CountProjects(ctx context.Context) (int64, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	return int64(len(db.Cache.Projects)), nil
}

func (db *JSONDB) findUserRecordByEmail(email string) (*UserRecord, bool) {
	found := funk.Find(
		funk.Values(db.Cache.Users),
		func(record *UserRecord) bool { return record.Email == email },
	)
	record, ok := found.(*UserRecord)

	return record, ok
}

// projectRecordsByUser returns the user's projects ordered by id.
func (db *JSONDB) projectRecordsByUser(userID int64) []*ProjectRecord {
	records := funk.Filter(
		funk.Values(db.Cache.Projects),
		func(record *ProjectRecord) bool { return record.UserID == userID },
	).([]*ProjectRecord)
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })

	return records
}

func (db *JSONDB) projectToModel(record *ProjectRecord) models.Project {
	project := models.Project{
		ID:      record.ID,
		Title:   record.Title,
		Content: record.Content,
	}
	if owner, ok := db.Cache.Users[record.UserID]; ok {
		project.User = owner.toModel()
		project.User.Password = ""
	}

	return project
}

func (r *UserRecord) toModel() *models.User {
	return &models.User{
		ID:        r.ID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Password:  r.Password,
	}
}
