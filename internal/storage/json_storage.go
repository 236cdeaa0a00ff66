package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/0yeonnnn0/kimitter-sub000/internal/core/ports"
)

// JSONStorage keeps the bot activity log in a local JSON file. Default
// backend when no database is configured.
type JSONStorage struct {
	FilePath string
	mu       sync.RWMutex
	Data     StorageData
}

type StorageData struct {
	DailyPostCount    map[string]int    `json:"daily_post_count"`
	LastPostDate      map[string]string `json:"last_post_date"`
	DailyCommentCount map[string]int    `json:"daily_comment_count"`
	LastCommentDate   map[string]string `json:"last_comment_date"`
}

func NewJSONStorage(filePath string) (*JSONStorage, error) {
	s := &JSONStorage{
		FilePath: filePath,
		Data: StorageData{
			DailyPostCount:    make(map[string]int),
			LastPostDate:      make(map[string]string),
			DailyCommentCount: make(map[string]int),
			LastCommentDate:   make(map[string]string),
		},
	}
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	if err := s.loadFromFile(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return s, nil
}

var _ ports.Storage = (*JSONStorage)(nil)

func (s *JSONStorage) loadFromFile() error {
	file, err := os.ReadFile(s.FilePath)
	if err != nil {
		return err
	}
	return json.Unmarshal(file, &s.Data)
}

func (s *JSONStorage) saveToFile() error {
	data, err := json.MarshalIndent(s.Data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.FilePath, data, 0644)
}

func (s *JSONStorage) GetPostStats(bot string) (int, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Data.DailyPostCount[bot], s.Data.LastPostDate[bot], nil
}

func (s *JSONStorage) IncrementPostCount(bot string, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Data.LastPostDate[bot] != date {
		s.Data.DailyPostCount[bot] = 1
		s.Data.LastPostDate[bot] = date
	} else {
		s.Data.DailyPostCount[bot]++
	}
	return s.saveToFile()
}

func (s *JSONStorage) GetCommentStats(bot string) (int, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Data.DailyCommentCount[bot], s.Data.LastCommentDate[bot], nil
}

func (s *JSONStorage) IncrementCommentCount(bot string, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Data.LastCommentDate[bot] != date {
		s.Data.DailyCommentCount[bot] = 1
		s.Data.LastCommentDate[bot] = date
	} else {
		s.Data.DailyCommentCount[bot]++
	}
	return s.saveToFile()
}
