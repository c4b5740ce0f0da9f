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

// This file documents, but does not build, the C ABI contract a cgo
// wrapper around Execute would need to expose to other languages. Building
// that wrapper (header generation, packaging) is an external collaborator
// per the module's scope, not part of the core.
//
// A conforming wrapper would marshal:
//
//	struct ExecProgInfo  { char *program_path; char *program_args; char *working_path; char *exec_as_user; };
//	struct ExecProgIO    { bool io_redirected; char *io_path_stdin; char *io_path_stdout; char *io_path_stderr; bool io_dup_err_out; };
//	struct ExecProgLimits{ uint64_t limit_real_time; uint64_t limit_proc_time; uint64_t limit_proc_wset;
//	                       bool rlimit_enabled; uint64_t rlimit_core; uint64_t rlimit_nproc; uint64_t rlimit_nofile; };
//	struct ExecProgGuard { bool scmp_enabled; bool scmp_deny_common; bool unshare_common; bool unshare_network; };
//	struct ProcExecResult{ int32_t exit_code; int32_t exit_sign; bool killed; int32_t kill_reason;
//	                       struct ProcResUsage { uint64_t real_time; uint64_t proc_time; uint64_t proc_wset; } res_usage; };
//
// into the Go structs in request.go/result.go field-for-field, call
// Execute, and marshal the result back out. Field order here mirrors that
// contract exactly so such a wrapper never needs to reorder anything.
