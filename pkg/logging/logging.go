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

// Package logging builds the root logger shared by cmd/limtrac and
// pkg/limtrac. It exists so both the CLI and library entry points log the
// same way, instead of each hand-rolling its own setup.
package logging

import (
	"fmt"
	"os"
	"strings"

	"github.com/coreos/go-systemd/v22/journal"
	"github.com/sirupsen/logrus"
)

// New builds a logger writing to stderr as text, or JSON when
// LIMTRAC_LOG_JSON=1. LIMTRAC_LOG_LEVEL overrides the default "info" level
// with any logrus level name ("debug", "warn", ...).
func New() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	if os.Getenv("LIMTRAC_LOG_JSON") == "1" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	level := logrus.InfoLevel
	if v := os.Getenv("LIMTRAC_LOG_LEVEL"); v != "" {
		if parsed, err := logrus.ParseLevel(v); err == nil {
			level = parsed
		}
	}
	log.SetLevel(level)

	if ok, _ := journal.StderrIsJournalStream(); ok {
		log.AddHook(&journalHook{})
	}

	return log
}

// journalHook re-emits entries to the systemd journal at their native
// priority when stderr is itself journald's own stream, so journald doesn't
// just capture an already-formatted text line under priority "info".
type journalHook struct{}

func (*journalHook) Levels() []logrus.Level { return logrus.AllLevels }

func (*journalHook) Fire(entry *logrus.Entry) error {
	return journal.Send(entry.Message, journalPriority(entry.Level), journalVars(entry.Data))
}

func journalPriority(level logrus.Level) journal.Priority {
	switch level {
	case logrus.PanicLevel, logrus.FatalLevel:
		return journal.PriEmerg
	case logrus.ErrorLevel:
		return journal.PriErr
	case logrus.WarnLevel:
		return journal.PriWarning
	case logrus.InfoLevel:
		return journal.PriInfo
	default:
		return journal.PriDebug
	}
}

func journalVars(fields logrus.Fields) map[string]string {
	vars := make(map[string]string, len(fields))
	for k, v := range fields {
		vars[strings.ToUpper(k)] = fmt.Sprintf("%v", v)
	}
	return vars
}
