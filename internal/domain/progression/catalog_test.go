package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalog(t *testing.T) {
	tests := []struct {
		name    string
		lessons []Lesson
		wantErr error
	}{
		{"empty", nil, ErrEmptyCatalog},
		{"blank id", []Lesson{{ID: " "}}, ErrEmptyLessonID},
		{"duplicate", []Lesson{{ID: "a"}, {ID: "a"}}, ErrDuplicateLesson},
		{"negative xp", []Lesson{{ID: "a", XPReward: -5}}, ErrNegativeXPReward},
		{"valid", []Lesson{{ID: "a", UnlockedByDefault: true}, {ID: "b"}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCatalog(tt.lessons)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, c)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.lessons), c.Len())
		})
	}
}

func TestCatalogDefaultsXPReward(t *testing.T) {
	c, err := NewCatalog([]Lesson{{ID: "a"}, {ID: "b", XPReward: 80}})
	require.NoError(t, err)

	a, ok := c.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, DefaultLessonXP, a.XPReward)

	b, _ := c.Lookup("b")
	assert.Equal(t, 80, b.XPReward)

	_, ok = c.Lookup("missing")
	assert.False(t, ok)
}

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	lessons := c.Lessons()

	require.Len(t, lessons, 6)
	assert.Equal(t, "lesson-001", lessons[0].ID)
	assert.True(t, lessons[0].UnlockedByDefault)
	assert.True(t, lessons[1].UnlockedByDefault)
	assert.False(t, lessons[2].UnlockedByDefault)

	lessons[0].ID = "mutated"
	first, _ := c.Lookup("lesson-001")
	assert.Equal(t, "lesson-001", first.ID, "Lessons returns a copy")
}
