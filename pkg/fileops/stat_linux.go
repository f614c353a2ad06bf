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

//go:build linux

package fileops

import (
	"os"
	"syscall"
	"time"
)

func fillSys(rec *Record, info os.FileInfo) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return
	}
	rec.Mode = uint32(st.Mode)
	rec.Ino = uint64(st.Ino)
	rec.Dev = uint64(st.Dev)
	rec.Nlink = uint64(st.Nlink)
	rec.Uid = st.Uid
	rec.Gid = st.Gid
	rec.Atime = time.Unix(st.Atim.Unix())
	rec.Ctime = time.Unix(st.Ctim.Unix())
}
