// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package fileops

import (
	"os"
	"time"

	"gitlab.com/tozd/go/errors"
)

// 📊 Record is a platform independent view of a stat call.
type Record struct {
	Mode  uint32 // file type and permission bits as reported by the OS
	Ino   uint64
	Dev   uint64
	Nlink uint64
	Uid   uint32
	Gid   uint32
	Size  int64
	Atime time.Time
	Mtime time.Time
	Ctime time.Time
	IsDir bool
}

// 📊 Stat stats path, following symlinks.
func Stat(path string) (*Record, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Errorf("stat %s: %w", path, err)
	}
	rec := &Record{
		Mode:  uint32(info.Mode()),
		Size:  info.Size(),
		Atime: info.ModTime(),
		Mtime: info.ModTime(),
		Ctime: info.ModTime(),
		IsDir: info.IsDir(),
		Nlink: 1,
	}
	fillSys(rec, info)
	return rec, nil
}
