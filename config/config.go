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
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config aggregates configuration for the application.
type Config struct {
	Dirs     DirsConfig     `mapstructure:"dirs"`
	Ingest   IngestConfig   `mapstructure:"ingest"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Flush    FlushConfig    `mapstructure:"flush"`
}

// DirsConfig names the drop directories and the output directory.
type DirsConfig struct {
	CSV     string `mapstructure:"csv"`
	Log     string `mapstructure:"log"`
	Request string `mapstructure:"request"`
	Output  string `mapstructure:"output"`
}

// IngestConfig controls file scanning and the gRPC ingest surface.
type IngestConfig struct {
	Delimiter      string        `mapstructure:"delimiter"`
	ReferenceFiles []string      `mapstructure:"reference_files"`
	ScanPeriod     time.Duration `mapstructure:"scan_period"`
	RequestMin     time.Duration `mapstructure:"request_min"`
	RequestMax     time.Duration `mapstructure:"request_max"`
	GRPCPort       int           `mapstructure:"grpc_port"`
}

// PipelineConfig sizes the dataflow runtime.
type PipelineConfig struct {
	InputQueueSize  int `mapstructure:"input_queue_size"`
	OutputQueueSize int `mapstructure:"output_queue_size"`
	Workers         int `mapstructure:"workers"`
}

// FlushConfig holds the two output cadences.
type FlushConfig struct {
	MinutePeriod time.Duration `mapstructure:"minute_period"`
	HourPeriod   time.Duration `mapstructure:"hour_period"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Dirs: DirsConfig{
			CSV:     "mock/mock_files/csv",
			Log:     "mock/mock_files/log",
			Request: "mock/mock_files/request",
			Output:  "processed",
		},
		Ingest: IngestConfig{
			Delimiter:      ";",
			ReferenceFiles: []string{"products.csv", "orders.csv", "stock.csv", "users.csv"},
			ScanPeriod:     time.Second,
			RequestMin:     time.Second,
			RequestMax:     3 * time.Second,
			GRPCPort:       50051,
		},
		Pipeline: PipelineConfig{
			InputQueueSize:  100,
			OutputQueueSize: 100,
			Workers:         10,
		},
		Flush: FlushConfig{
			MinutePeriod: time.Minute,
			HourPeriod:   time.Hour,
		},
	}
}

// Load reads configuration from files and environment variables.
// Environment variables use the prefix "SHOPRUNNER" and the dot character
// in keys is replaced by an underscore. For example, "dirs.output" becomes
// "SHOPRUNNER_DIRS_OUTPUT".
func Load() (*Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.SetEnvPrefix("SHOPRUNNER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvs(v, cfg)
	_ = v.ReadInConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the parts that fail only at startup.
func (c *Config) Validate() error {
	if len(c.Ingest.Delimiter) != 1 {
		return fmt.Errorf("ingest delimiter must be a single byte, got %q", c.Ingest.Delimiter)
	}
	for _, dir := range []string{c.Dirs.CSV, c.Dirs.Log, c.Dirs.Request} {
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("drop directory %s: %w", dir, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("drop directory %s is not a directory", dir)
		}
	}
	if c.Ingest.RequestMax < c.Ingest.RequestMin {
		return fmt.Errorf("request_max %s is below request_min %s", c.Ingest.RequestMax, c.Ingest.RequestMin)
	}
	return nil
}

// Delim returns the delimiter as a byte.
func (c *Config) Delim() byte { return c.Ingest.Delimiter[0] }

// bindEnvs registers all keys within cfg so that viper will look up
// corresponding environment variables when unmarshalling.
func bindEnvs(v *viper.Viper, cfg any, parts ...string) {
	val := reflect.ValueOf(cfg)
	typ := reflect.TypeOf(cfg)
	if typ.Kind() == reflect.Ptr {
		val = val.Elem()
		typ = typ.Elem()
	}
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		tag := f.Tag.Get("mapstructure")
		if tag == "" {
			tag = strings.ToLower(f.Name)
		}
		key := append(parts, tag)
		if f.Type.Kind() == reflect.Struct {
			bindEnvs(v, val.Field(i).Interface(), key...)
			continue
		}
		_ = v.BindEnv(strings.Join(key, "."))
	}
}
