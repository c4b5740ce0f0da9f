// Copyright 2024 The LIMTRAC-GO Authors.
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

package limtrac_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/overtest/limtrac-go/pkg/limtrac"
)

func TestFilterEnvironDropsLimtracVars(t *testing.T) {
	in := []string{
		"PATH=/usr/bin",
		"LIMTRAC_FULLPATH=/bin/true",
		"HOME=/root",
		"LIMTRAC_SCMP_ENABLED=true",
	}
	out := limtrac.FilterEnviron(in)
	assert.Equal(t, []string{"PATH=/usr/bin", "HOME=/root"}, out)
}

func TestFilterEnvironEmpty(t *testing.T) {
	assert.Empty(t, limtrac.FilterEnviron(nil))
}

func TestFilterEnvironNoLimtracVars(t *testing.T) {
	in := []string{"PATH=/usr/bin", "HOME=/root"}
	assert.Equal(t, in, limtrac.FilterEnviron(in))
}
