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

//go:build linux

// Package watchdog implements the parent-side polling loop: a
// single-threaded, non-blocking wait/poll loop that cross-checks /proc and
// wait status against configured limits, killing the child on the first
// breach and reporting a structured verdict once it has exited.
package watchdog

import (
	"context"
	"fmt"
	"time"

	"github.com/overtest/limtrac-go/pkg/limtrac"
	"github.com/overtest/limtrac-go/pkg/probe"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
	"golang.org/x/time/rate"
)

// pollInterval is the build-time constant pacing the watchdog's poll
// cadence, per spec §5 ("configurable only as a build-time constant").
const pollInterval = 20 * time.Millisecond

// waitResult is one wait4(..., WNOHANG, ...) observation.
type waitResult struct {
	pid int
	ws  unix.WaitStatus
	ru  unix.Rusage
}

// waiter abstracts the non-blocking reap so tests can drive the state
// machine without a real child process.
type waiter func(pid int) (waitResult, error)

// sampler abstracts a live /proc read so tests can drive limit breaches
// deterministically.
type sampler func(pid int) (limtrac.ProcResUsage, error)

// killer abstracts sending the kill signal.
type killer func(pid int, sig unix.Signal) error

func defaultWaiter(pid int) (waitResult, error) {
	var ws unix.WaitStatus
	var ru unix.Rusage
	wpid, err := unix.Wait4(pid, &ws, unix.WNOHANG, &ru)
	return waitResult{pid: wpid, ws: ws, ru: ru}, err
}

// Run polls pid until it exits, enforcing limits, and returns the
// resulting verdict. start must be the wall-clock instant the child began
// running (captured immediately after fork/start by the caller).
//
// Run returns an error only for infrastructure failures (an unexpected
// wait4 errno); a guest's own failures are always reported in the returned
// *ProcExecResult, never as a Go error.
func Run(pid int, start time.Time, limits limtrac.ExecProgLimits, log logrus.FieldLogger) (*limtrac.ProcExecResult, error) {
	return run(pid, start, limits, log, defaultWaiter, probe.FromProc, unix.Kill, pollInterval)
}

func run(pid int, start time.Time, limits limtrac.ExecProgLimits, log logrus.FieldLogger, wait waiter, sample sampler, kill killer, interval time.Duration) (*limtrac.ProcExecResult, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	result := limtrac.NewProcExecResult()
	limiter := rate.NewLimiter(rate.Every(interval), 1)
	ctx := context.Background()

	for {
		wr, err := wait(pid)
		if err != nil {
			return nil, fmt.Errorf("watchdog: wait4(%d): %w", pid, err)
		}

		result.Usage.RealTime = uint64(time.Since(start).Milliseconds())

		if wr.pid == 0 {
			// Child is still running.
			usage, err := sample(pid)
			if err != nil {
				// Transient /proc read failure: skip limit checks this
				// tick, per §4.D.
				log.WithError(err).Debug("watchdog: transient /proc read failure, skipping tick")
			} else {
				result.Usage.Merge(usage)
				result.Usage.RealTime = uint64(time.Since(start).Milliseconds())

				if reason, breached := checkBreach(result.Usage, limits); breached {
					log.WithFields(logrus.Fields{"pid": pid, "reason": reason}).Warn("watchdog: policy breach, killing child")
					_ = kill(pid, unix.SIGKILL)
					result.Killed = true
					result.KillReason = reason
					// Don't break: let the next WNOHANG reap the dying child.
					continue
				}
			}

			if err := limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("watchdog: pacing wait: %w", err)
			}
			continue
		}

		// Child changed state (exited or was signaled).
		result.Usage.Merge(probe.FromRusage(&wr.ru))
		result.Usage.RealTime = uint64(time.Since(start).Milliseconds())

		switch {
		case wr.ws.Exited():
			result.ExitCode = wr.ws.ExitStatus()
			result.ExitSignal = 0
			if !result.Killed {
				result.KillReason = limtrac.KillReasonNone
			}
		case wr.ws.Signaled():
			result.ExitCode = -1
			result.ExitSignal = int(wr.ws.Signal())
			if !result.Killed {
				result.KillReason = classifySignalDeath(unix.Signal(result.ExitSignal), result.Usage, limits)
				result.Killed = true
			}
		}
		return result, nil
	}
}

// checkBreach returns the kill reason and true for the first limit (in
// priority order realtime > proctime > procwset) a usage sample exceeds.
func checkBreach(usage limtrac.ProcResUsage, limits limtrac.ExecProgLimits) (limtrac.KillReason, bool) {
	if limits.LimitRealTime > 0 && usage.RealTime > limits.LimitRealTime {
		return limtrac.KillReasonRealtime, true
	}
	if limits.LimitProcTime > 0 && usage.ProcTime > limits.LimitProcTime {
		return limtrac.KillReasonProcTime, true
	}
	if limits.LimitProcWSet > 0 && usage.ProcWSet > limits.LimitProcWSet {
		return limtrac.KillReasonProcWSet, true
	}
	return limtrac.KillReasonUnset, false
}

// classifySignalDeath attributes a kill reason when the watchdog itself
// did not issue the kill, per spec §4.D's priority order: security (SIGSYS)
// outranks any resource-limit attribution.
func classifySignalDeath(sig unix.Signal, usage limtrac.ProcResUsage, limits limtrac.ExecProgLimits) limtrac.KillReason {
	if sig == unix.SIGSYS {
		return limtrac.KillReasonSecurity
	}
	if reason, breached := checkBreach(usage, limits); breached {
		return reason
	}
	return limtrac.KillReasonUnset
}
