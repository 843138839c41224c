package repository

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"github.com/txix-open/isp-kit/json"
	"mc-gate-service/domain"
	"mc-gate-service/entity"
)

const (
	agreementFilePerm = 0o644
)

// Agreement persists the agreement document as a single JSON file.
// Every write replaces the whole file through a rename; the mutex serializes read-modify-write cycles.
type Agreement struct {
	path string
	lock *sync.Mutex
}

func NewAgreement(path string) Agreement {
	return Agreement{
		path: path,
		lock: &sync.Mutex{},
	}
}

func (r Agreement) Record(_ context.Context, userId string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	agreements, err := r.load()
	if err != nil {
		return err
	}
	agreements[userId] = true

	return r.save(agreements)
}

func (r Agreement) Check(_ context.Context, userId string) (bool, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	agreements, err := r.load()
	if err != nil {
		return false, err
	}

	return agreements[userId], nil
}

func (r Agreement) load() (entity.Agreements, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		agreements := entity.Agreements{}
		err = r.save(agreements)
		if err != nil {
			return nil, err
		}
		return agreements, nil
	}
	if err != nil {
		return nil, domain.NewStorageError("read agreements", err)
	}

	agreements := entity.Agreements{}
	err = json.Unmarshal(data, &agreements)
	if err != nil {
		return nil, domain.NewStorageError("decode agreements", err)
	}
	return agreements, nil
}

func (r Agreement) save(agreements entity.Agreements) error {
	buf := bytes.NewBuffer(nil)
	encoder := json.NewEncoder(buf)
	encoder.SetIndent("", "    ")
	err := encoder.Encode(agreements)
	if err != nil {
		return domain.NewStorageError("encode agreements", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return domain.NewStorageError("create temp file", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	_, err = tmp.Write(buf.Bytes())
	if err != nil {
		_ = tmp.Close()
		return domain.NewStorageError("write temp file", err)
	}
	err = tmp.Close()
	if err != nil {
		return domain.NewStorageError("close temp file", err)
	}
	err = os.Chmod(tmpName, agreementFilePerm)
	if err != nil {
		return domain.NewStorageError("chmod temp file", err)
	}

	err = os.Rename(tmpName, r.path)
	if err != nil {
		return domain.NewStorageError("replace agreements", err)
	}
	return nil
}
