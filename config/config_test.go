// Copyright (C) 2025 CardinalHQ, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 100, cfg.Pipeline.InputQueueSize)
	assert.Equal(t, 100, cfg.Pipeline.OutputQueueSize)
	assert.Equal(t, 10, cfg.Pipeline.Workers)
	assert.Equal(t, ";", cfg.Ingest.Delimiter)
	assert.Equal(t, byte(';'), cfg.Delim())
	assert.Equal(t, 50051, cfg.Ingest.GRPCPort)
	assert.Equal(t, time.Minute, cfg.Flush.MinutePeriod)
	assert.Equal(t, time.Hour, cfg.Flush.HourPeriod)
	assert.Len(t, cfg.Ingest.ReferenceFiles, 4)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("SHOPRUNNER_DIRS_OUTPUT", "/tmp/out")
	t.Setenv("SHOPRUNNER_INGEST_GRPC_PORT", "6001")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/out", cfg.Dirs.Output)
	assert.Equal(t, 6001, cfg.Ingest.GRPCPort)
	// Untouched keys keep their defaults.
	assert.Equal(t, 10, cfg.Pipeline.Workers)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Dirs.CSV = t.TempDir()
	cfg.Dirs.Log = t.TempDir()
	cfg.Dirs.Request = t.TempDir()
	require.NoError(t, cfg.Validate())

	cfg.Ingest.Delimiter = ";;"
	assert.Error(t, cfg.Validate())
	cfg.Ingest.Delimiter = ";"

	cfg.Dirs.Log = "/definitely/not/a/dir"
	assert.Error(t, cfg.Validate())
	cfg.Dirs.Log = t.TempDir()

	cfg.Ingest.RequestMin = 5 * time.Second
	cfg.Ingest.RequestMax = time.Second
	assert.Error(t, cfg.Validate())
}
