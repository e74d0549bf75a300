package limiter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid limit only",
			cfg:     Config{Limit: 10},
			wantErr: false,
		},
		{
			name:    "valid offset only",
			cfg:     Config{Offset: 5},
			wantErr: false,
		},
		{
			name:    "valid limit and offset",
			cfg:     Config{Limit: 10, Offset: 5},
			wantErr: false,
		},
		{
			name:    "valid tail only",
			cfg:     Config{Tail: 10},
			wantErr: false,
		},
		{
			name:    "tail ignores offset (valid)",
			cfg:     Config{Tail: 10, Offset: 5},
			wantErr: false,
		},
		{
			name:    "limit and tail mutually exclusive",
			cfg:     Config{Limit: 10, Tail: 5},
			wantErr: true,
			errMsg:  "mutually exclusive",
		},
		{
			name:    "negative limit invalid",
			cfg:     Config{Limit: -1},
			wantErr: true,
			errMsg:  "non-negative",
		},
		{
			name:    "negative offset invalid",
			cfg:     Config{Offset: -1},
			wantErr: true,
			errMsg:  "non-negative",
		},
		{
			name:    "negative tail invalid",
			cfg:     Config{Tail: -1},
			wantErr: true,
			errMsg:  "non-negative",
		},
		{
			name:    "zero values valid",
			cfg:     Config{Limit: 0, Offset: 0, Tail: 0},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestConfigIsActive(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		wantBool bool
	}{
		{
			name:     "no flags set",
			cfg:      Config{},
			wantBool: false,
		},
		{
			name:     "limit set",
			cfg:      Config{Limit: 10},
			wantBool: true,
		},
		{
			name:     "offset set",
			cfg:      Config{Offset: 5},
			wantBool: true,
		},
		{
			name:     "tail set",
			cfg:      Config{Tail: 10},
			wantBool: true,
		},
		{
			name:     "all flags set",
			cfg:      Config{Limit: 10, Offset: 5, Tail: 0}, // tail not really set
			wantBool: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.cfg.IsActive()
			assert.Equal(t, tt.wantBool, got)
		})
	}
}

func TestApply(t *testing.T) {
	items := []string{"ant", "bee", "cat", "dog", "eel", "fox", "gnu", "hen", "ibis", "jay"}

	tests := []struct {
		name string
		cfg  Config
		want []string
	}{
		{
			name: "limit only",
			cfg:  Config{Limit: 3},
			want: []string{"ant", "bee", "cat"},
		},
		{
			name: "offset only",
			cfg:  Config{Offset: 7},
			want: []string{"hen", "ibis", "jay"},
		},
		{
			name: "limit and offset",
			cfg:  Config{Limit: 3, Offset: 2},
			want: []string{"cat", "dog", "eel"},
		},
		{
			name: "tail only",
			cfg:  Config{Tail: 2},
			want: []string{"ibis", "jay"},
		},
		{
			name: "offset larger than list",
			cfg:  Config{Offset: 20},
			want: []string{},
		},
		{
			name: "limit larger than remaining",
			cfg:  Config{Limit: 100, Offset: 8},
			want: []string{"ibis", "jay"},
		},
		{
			name: "tail larger than list",
			cfg:  Config{Tail: 100},
			want: items,
		},
		{
			name: "limit zero (unlimited)",
			cfg:  Config{Limit: 0},
			want: items,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Apply(tt.cfg, items))
		})
	}
}

func TestBounds(t *testing.T) {
	tests := []struct {
		name       string
		cfg        Config
		n          int
		start, end int
	}{
		{"empty list", Config{Limit: 5}, 0, 0, 0},
		{"limit", Config{Limit: 5}, 12, 0, 5},
		{"offset past end", Config{Offset: 4}, 3, 3, 3},
		{"tail", Config{Tail: 2}, 12, 10, 12},
		{"inactive", Config{}, 7, 0, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := tt.cfg.Bounds(tt.n)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
		})
	}
}

func TestApplyEdgeCases(t *testing.T) {
	t.Run("nil list", func(t *testing.T) {
		assert.Empty(t, Apply(Config{Limit: 10}, []string(nil)))
	})

	t.Run("single element with limit 1", func(t *testing.T) {
		assert.Equal(t, []string{"cat"}, Apply(Config{Limit: 1}, []string{"cat"}))
	})

	t.Run("offset equals length", func(t *testing.T) {
		assert.Equal(t, []string{}, Apply(Config{Offset: 3}, []string{"a", "b", "c"}))
	})

	t.Run("tail zero is inactive", func(t *testing.T) {
		items := []string{"a", "b", "c"}
		assert.Equal(t, items, Apply(Config{Tail: 0}, items))
	})

	t.Run("works for any element type", func(t *testing.T) {
		assert.Equal(t, []int{2, 3}, Apply(Config{Offset: 1, Limit: 2}, []int{1, 2, 3, 4}))
	})
}

func TestTailIgnoresOffset(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}
	assert.Equal(t, []string{"d", "e"}, Apply(Config{Tail: 2, Offset: 1}, items))
}
