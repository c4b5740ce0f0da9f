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

package limtrac

import "github.com/sirupsen/logrus"

// Options configures a single Execute call. The zero value (via no Option
// arguments) logs to logrus's standard logger and never touches the
// accounting cgroup stub.
type Options struct {
	Logger logrus.FieldLogger
	RunDir string
}

// Option mutates Options.
type Option func(*Options)

// WithLogger routes Execute's diagnostic logging through log instead of
// logrus's standard logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(o *Options) { o.Logger = log }
}

// WithRunDir opts into the optional accounting cgroup (pkg/cgroupstub).
// dir must exist; Execute takes an advisory lock on a file inside it for
// the duration of the run, guarding two concurrent Executes from racing to
// create the same stub cgroup path. It has no effect unless the guard
// passed to Execute also requests UnshareCommon. Not part of the documented
// request struct layout, so it never changes the C ABI in pkg/limtrac/abi.go.
func WithRunDir(dir string) Option {
	return func(o *Options) { o.RunDir = dir }
}

func resolveOptions(opts []Option) *Options {
	o := &Options{Logger: logrus.StandardLogger()}
	for _, apply := range opts {
		apply(o)
	}
	return o
}
