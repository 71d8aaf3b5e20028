package fileutils

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

type Callback func(fileinfo fs.DirEntry) bool

// GetFiles calls the callback for every entry of the path with the prefix, stops if the callback returns false
func GetFiles(rootpath, prefix string, callback Callback) error {
	infos, err := os.ReadDir(rootpath)
	if err != nil {
		return err
	}
	for _, i := range infos {
		if prefix == "" || strings.HasPrefix(strings.ToLower(i.Name()), strings.ToLower(prefix)) {
			ok := callback(i)
			if !ok {
				return nil
			}
		}
	}
	return nil
}

// FileExists checks if a file exsists
func FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}

// IsDir checks if the path is a directory
func IsDir(filename string) bool {
	f, err := os.Stat(filename)
	return err == nil && f.IsDir()
}

// FileNameWithoutExtension returning the filename without the extension
func FileNameWithoutExtension(fileName string) string {
	return strings.TrimSuffix(fileName, filepath.Ext(fileName))
}
