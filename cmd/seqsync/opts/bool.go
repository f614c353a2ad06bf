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
package opts

import (
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"gitlab.com/tozd/go/errors"
)

// ParseBool accepts yes/true/t/y/1 and no/false/f/n/0 in any case
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "t", "y", "1":
		return true, nil
	case "no", "false", "f", "n", "0":
		return false, nil
	}
	return false, errors.Errorf("boolean value expected, got %q", s)
}

// BoolValue is a flag taking an optional boolean argument. Given bare it
// takes the value registered with BoolFlag.
type BoolValue struct {
	p *bool
}

var _ pflag.Value = (*BoolValue)(nil)

func (b *BoolValue) String() string {
	if b.p == nil {
		return "false"
	}
	return strconv.FormatBool(*b.p)
}

func (b *BoolValue) Set(s string) error {
	v, err := ParseBool(s)
	if err != nil {
		return err
	}
	*b.p = v
	return nil
}

func (b *BoolValue) Type() string {
	return "bool"
}

// BoolFlag registers a BoolValue flag. def is used when the flag is absent,
// bare when it is given without "=value".
func BoolFlag(fs *pflag.FlagSet, p *bool, name string, def, bare bool, usage string) {
	*p = def
	fs.Var(&BoolValue{p: p}, name, usage)
	fs.Lookup(name).NoOptDefVal = strconv.FormatBool(bare)
}
