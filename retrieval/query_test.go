package retrieval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/goliatone/go-catalog-cache/retrieval"
)

func TestValidateSort(t *testing.T) {
	tests := []struct {
		spec    string
		wantErr bool
	}{
		{"", false},
		{"imdb_rating", false},
		{"-imdb_rating", false},
		{"title", true},
		{"-title", true},
		{"-", true},
		{"--imdb_rating", true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			err := retrieval.ValidateSort(tt.spec)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestQueryValidate(t *testing.T) {
	assert.NoError(t, retrieval.Query{Text: "anything", Sort: "-imdb_rating"}.Validate())
	assert.Error(t, retrieval.Query{Sort: "popularity"}.Validate())
}

func TestQueryNormalized(t *testing.T) {
	q := retrieval.Query{Text: "x", Page: 0, Size: -1, Sort: "-imdb_rating"}.Normalized()
	assert.Equal(t, retrieval.Query{Text: "x", Page: 1, Size: 50, Sort: "-imdb_rating"}, q)
}
