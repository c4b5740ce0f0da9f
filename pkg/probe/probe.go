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

// Package probe reads process resource usage from two sources and
// normalizes both into limtrac.ProcResUsage: a live /proc/<pid> snapshot,
// taken while the child is still running, and a terminal rusage snapshot,
// taken once the child has been reaped. Real time is deliberately not
// computed here — it's the watchdog's job, since only the watchdog knows
// when the child actually started.
package probe

const millisPerSecond = 1000
