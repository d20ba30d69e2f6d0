package reporting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitContainerURL(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantService string
		wantBucket  string
		wantPrefix  string
		wantErr     bool
	}{
		{
			name:        "container only",
			raw:         "https://acct.blob.core.windows.net/reports",
			wantService: "https://acct.blob.core.windows.net",
			wantBucket:  "reports",
		},
		{
			name:        "trailing slash",
			raw:         "https://acct.blob.core.windows.net/reports/",
			wantService: "https://acct.blob.core.windows.net",
			wantBucket:  "reports",
		},
		{
			name:        "with prefix",
			raw:         "https://acct.blob.core.windows.net/reports/ci/nightly",
			wantService: "https://acct.blob.core.windows.net",
			wantBucket:  "reports",
			wantPrefix:  "ci/nightly",
		},
		{
			name:    "no container",
			raw:     "https://acct.blob.core.windows.net/",
			wantErr: true,
		},
		{
			name:    "not absolute",
			raw:     "acct.blob.core.windows.net/reports",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, container, prefix, err := splitContainerURL(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantService, service)
			assert.Equal(t, tt.wantBucket, container)
			assert.Equal(t, tt.wantPrefix, prefix)
		})
	}
}
