package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"nexus-assist/pkg/logger"
)

// DiskStorage keeps every collection in memory and rewrites the collection's
// JSON file after each mutation.
type DiskStorage struct {
	*MemoryStorage
	dataDir string
}

func NewDiskStorage(dataDir string) *DiskStorage {
	d := &DiskStorage{
		MemoryStorage: NewMemoryStorage(),
		dataDir:       dataDir,
	}
	d.changed = d.persist
	return d
}

func (d *DiskStorage) Init() error {
	if err := d.createDirectories(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageInit, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	loaders := map[string]any{
		colUsers:         &d.users,
		colDrafts:        &d.drafts,
		colSMFs:          &d.smfs,
		colNotifications: &d.notifications,
		colChats:         &d.chats,
	}
	for name, target := range loaders {
		if err := d.loadCollection(name, target); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrStorageInit, name, err)
		}
	}

	logger.WithFields(map[string]interface{}{
		"data_dir":      d.dataDir,
		"users":         len(d.users),
		"drafts":        len(d.drafts),
		"smfs":          len(d.smfs),
		"notifications": len(d.notifications),
		"chats":         len(d.chats),
	}).Info("Disk storage initialized")
	return nil
}

func (d *DiskStorage) createDirectories() error {
	dirs := []string{
		d.dataDir,
		filepath.Join(d.dataDir, "backup"),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

func (d *DiskStorage) collectionPath(name string) string {
	return filepath.Join(d.dataDir, name+".json")
}

// loadCollection fills target from its file; a missing file leaves the
// collection empty.
func (d *DiskStorage) loadCollection(name string, target any) error {
	data, err := os.ReadFile(d.collectionPath(name))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, target)
}

func (d *DiskStorage) snapshot(name string) (any, error) {
	switch name {
	case colUsers:
		return d.users, nil
	case colDrafts:
		return d.drafts, nil
	case colSMFs:
		return d.smfs, nil
	case colNotifications:
		return d.notifications, nil
	case colChats:
		return d.chats, nil
	}
	return nil, fmt.Errorf("unknown collection %q", name)
}

// persist runs with the write lock held.
func (d *DiskStorage) persist(name string) error {
	value, err := d.snapshot(name)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFileOperation, err)
	}

	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFileOperation, err)
	}

	path := d.collectionPath(name)
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("%w: %v", ErrFileOperation, err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("%w: %v", ErrFileOperation, err)
	}
	return nil
}

func (d *DiskStorage) Close() error {
	return nil
}

// Backup copies every collection file into backup/backup_<unix seconds>.
func (d *DiskStorage) Backup() error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	backupDir := filepath.Join(d.dataDir, "backup", fmt.Sprintf("backup_%d", time.Now().Unix()))
	if err := os.MkdirAll(backupDir, 0755); err != nil {
		return fmt.Errorf("%w: %v", ErrFileOperation, err)
	}

	for _, name := range []string{colUsers, colDrafts, colSMFs, colNotifications, colChats} {
		src := d.collectionPath(name)
		if _, err := os.Stat(src); os.IsNotExist(err) {
			continue
		}
		if err := copyFile(src, filepath.Join(backupDir, name+".json")); err != nil {
			return fmt.Errorf("%w: %v", ErrFileOperation, err)
		}
	}

	logger.Infof("Backup completed: %s", backupDir)
	return nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0644)
}
