package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-allocator/internal/allocator"
	"github.com/noah-isme/campus-allocator/internal/models"
)

const coursesCSV = `id,code,name,teacher,capacity,credits,schedule,interest_index,workload,recommend_index
c1,MATH101,Calculus,Ana,2,3,Mon 1-2; Wed 1-2,4.5,3,0.9
c2,ART110,,Budi,1,2,Tue 3,3.2,1,0.4
`

func TestReadCSVCourses(t *testing.T) {
	rows, err := ReadCSV[models.Course](strings.NewReader(coursesCSV), ',')
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Mon 1-2; Wed 1-2", rows[0].Schedule)

	courses, err := CourseList(rows)
	require.NoError(t, err)
	assert.Equal(t, []allocator.PeriodSlot{{Day: 1, Periods: []int{1, 2}}, {Day: 3, Periods: []int{1, 2}}}, courses[0].Slots)
	assert.Equal(t, "ART110", courses[1].Name)
	assert.InDelta(t, 0.9, courses[0].Recommend, 1e-9)

	table, err := CourseTable(courses)
	require.NoError(t, err)
	assert.Len(t, table, 2)

	_, err = CourseTable(append(courses, courses[0]))
	assert.ErrorIs(t, err, allocator.ErrInvalidInput)
}

func TestReadCSVSemicolonActivities(t *testing.T) {
	data := "id;name;duration_hours;required_venues;frequency;max_members\n" +
		"a1;Choir;2;hall|classroom;weekly;30\n"
	rows, err := ReadCSV[models.ClubActivity](strings.NewReader(data), ';')
	require.NoError(t, err)

	acts := Activities(rows)
	require.Len(t, acts, 1)
	assert.Equal(t, []string{"hall", "classroom"}, acts[0].RequiredTypes)
	assert.Equal(t, allocator.FrequencyWeekly, acts[0].Frequency)
	assert.Equal(t, 2, acts[0].Duration)
}

func TestCourseRejectsBadSchedule(t *testing.T) {
	_, err := Course(models.Course{ID: "bad", Schedule: "Sun 1"})
	assert.ErrorIs(t, err, allocator.ErrInvalidInput)
}

func TestLoadInstance(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "instance.yaml")
	content := `
venues:
  - name: Hall
    type: hall
    capacity: 200
activities:
  - id: band
    name: Band
    duration: 2
    requiredVenues: hall
books:
  - id: b1
    title: Dune
    availableIn: 0
    readDays: 14
prior:
  s1: [c1]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	inst, err := LoadInstance(path)
	require.NoError(t, err)
	assert.Equal(t, []allocator.Venue{{Name: "Hall", Type: "hall", Capacity: 200}}, Venues(inst.Venues))
	assert.Equal(t, []string{"hall"}, Activities(inst.Activities)[0].RequiredTypes)
	assert.Equal(t, []allocator.ReadTask{{ID: "b1", Title: "Dune", EarliestStart: 0, Duration: 14}}, ReadTasks(inst.Books))
	assert.Equal(t, []string{"c1"}, inst.Prior["s1"])
}

func TestParseInstanceRejectsUnknownKeys(t *testing.T) {
	_, err := ParseInstance([]byte("rooms: []\n"))
	assert.Error(t, err)

	_, err = ParseInstance([]byte("   "))
	assert.Error(t, err)
}

func TestSplitTypes(t *testing.T) {
	assert.Equal(t, []string{"gym", "hall"}, SplitTypes(" gym , hall|"))
	assert.Empty(t, SplitTypes(""))
}
