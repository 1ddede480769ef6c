package services

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"Aarogyam/util"
)

// FileStore keeps uploads on disk. The token handed back is the public
// /uploads path: upload timestamp plus the original extension. Documents
// store the token as an opaque string.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

/*
* Create the uploads dir on first use
* Name the file by upload timestamp and original extension
 */
func (f *FileStore) Store(fh *multipart.FileHeader) (string, error) {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		log.Println("Error while creating uploads dir: ", err)
		return "", fmt.Errorf("%w: %v", util.ErrExternalService, err)
	}

	name := fmt.Sprintf("%d%s", time.Now().UnixMilli(), filepath.Ext(fh.Filename))
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("%w: %v", util.ErrExternalService, err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(f.dir, name))
	if err != nil {
		log.Println("Error while writing upload: ", err)
		return "", fmt.Errorf("%w: %v", util.ErrExternalService, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("%w: %v", util.ErrExternalService, err)
	}
	return "/uploads/" + name, nil
}

// Path resolves a token back to the on-disk location.
func (f *FileStore) Path(token string) string {
	return filepath.Join(f.dir, strings.TrimPrefix(token, "/uploads/"))
}
