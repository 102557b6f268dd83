package cli

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-allocator/internal/allocator"
	"github.com/noah-isme/campus-allocator/internal/dto"
	"github.com/noah-isme/campus-allocator/internal/models"
	"github.com/noah-isme/campus-allocator/internal/service"
)

const (
	coursesCSV = `id,code,name,teacher,capacity,credits,schedule,interest_index,workload,recommend_index
c1,MATH101,Calculus,Ana,1,3,Mon 1-2,4,3,0.9
c2,ART110,Drawing,Budi,2,2,Mon 2,5,1,0.4
c3,BIO120,,Citra,5,2,Tue 1,1,2,0.6
`
	applicationsCSV = `id,requester_id,course_id,priority,submitted_at
a1,s1,c1,90,1
a2,s2,c1,50,2
a3,s1,c2,40,3
`
	booksCSV = `id,title,author,available_in,read_days
b1,Dune,Herbert,0,3
b2,Emma,Austen,1,2
b3,Ulysses,Joyce,0,9
`
	scheduleYAML = `venues:
  - name: Hall
    type: hall
    capacity: 120
  - name: R101
    type: classroom
    capacity: 30
activities:
  - id: choir
    name: Choir
    duration: 3
    requiredVenues: hall
    frequency: weekly
    maxMembers: 60
  - id: chess
    name: Chess Club
    duration: 2
    requiredVenues: classroom
`
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// run parses args like the binary does and executes the selected command.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var root Root
	parser, err := kong.New(&root, kong.Vars{"version": "test"}, kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	require.NoError(t, err)
	kctx, err := parser.Parse(args)
	require.NoError(t, err)

	var out bytes.Buffer
	appCtx, err := root.NewContext(&out, nil)
	require.NoError(t, err)
	err = kctx.Run(appCtx)
	return out.String(), err
}

func TestAllocateFromCSV(t *testing.T) {
	courses := writeFile(t, "courses.csv", coursesCSV)
	apps := writeFile(t, "applications.csv", applicationsCSV)

	out, err := run(t, "allocate", "--courses", courses, "--applications", apps)
	require.NoError(t, err)

	var result dto.AllocationResponse
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 2, result.Failed)

	byID := map[string]allocator.AllocationResult{}
	for _, r := range result.Results {
		byID[r.ApplicationID] = r
	}
	assert.True(t, byID["a1"].Succeeded())
	assert.Equal(t, allocator.ReasonCapacityExceeded, byID["a2"].Reason)
	assert.Equal(t, allocator.ReasonTimeConflict, byID["a3"].Reason)
	assert.Equal(t, "c1", byID["a3"].ConflictWith)
}

func TestAllocateCSVOutputAndLimits(t *testing.T) {
	courses := writeFile(t, "courses.csv", coursesCSV)
	apps := writeFile(t, "applications.csv", applicationsCSV)

	out, err := run(t, "--format", "csv", "allocate", "--courses", courses, "--applications", apps)
	require.NoError(t, err)
	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"application", "requester", "course", "status", "reason", "conflict_with"}, records[0])

	_, err = run(t, "allocate", "--courses", courses, "--applications", apps, "--max-demands", "2")
	assert.Error(t, err)

	_, err = run(t, "allocate", "--applications", apps)
	assert.EqualError(t, err, "no courses given: use --instance or --courses")
}

func TestAllocateSemicolonDelimiter(t *testing.T) {
	courses := writeFile(t, "courses.csv", "id;capacity;credits;schedule\nc1;1;3;Mon 1-2; Wed 3\n")
	apps := writeFile(t, "applications.csv", "id;requester_id;course_id;priority;submitted_at\na1;s1;c1;10;1\n")

	_, err := run(t, "--comma", ";", "allocate", "--courses", courses, "--applications", apps)
	assert.Error(t, err, "unquoted schedule splits into an extra column")

	courses = writeFile(t, "courses.csv", "id;capacity;credits;schedule\nc1;1;3;\"Mon 1-2; Wed 3\"\n")
	out, err := run(t, "--comma", ";", "allocate", "--courses", courses, "--applications", apps)
	require.NoError(t, err)
	assert.Contains(t, out, `"succeeded": 1`)
}

func TestScheduleTableFromInstance(t *testing.T) {
	inst := writeFile(t, "instance.yaml", scheduleYAML)

	out, err := run(t, "--format", "table", "schedule", "--instance", inst, "--require-seats")
	require.NoError(t, err)
	assert.Contains(t, out, "Activity Timetable")
	assert.Contains(t, out, "choir")
	assert.Contains(t, out, "Hall")
	assert.Contains(t, out, "2 placed, 0 unplaced, strategy "+service.StrategyBacktracking)

	out, err = run(t, "schedule", "--instance", inst, "--max-exhaustive", "1")
	require.NoError(t, err)
	var result dto.ScheduleResponse
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, service.StrategyGreedy, result.Strategy)
	assert.True(t, result.Complete)
}

func TestScheduleRequiresBothLists(t *testing.T) {
	venues := writeFile(t, "venues.csv", "name,venue_type,capacity\nHall,hall,100\n")
	_, err := run(t, "schedule", "--venues", venues)
	assert.EqualError(t, err, "venues and activities are both required")
}

func TestPlanSelectsBooks(t *testing.T) {
	books := writeFile(t, "books.csv", booksCSV)

	out, err := run(t, "plan", "--books", books, "--select", "b2,b1")
	require.NoError(t, err)
	var plan dto.ReadingPlanResponse
	require.NoError(t, json.Unmarshal([]byte(out), &plan))
	assert.Equal(t, 5, plan.Makespan)
	require.Len(t, plan.Intervals, 2)
	assert.Equal(t, allocator.PlannedInterval{TaskID: "b1", Title: "Dune", Start: 0, End: 3}, plan.Intervals[0])

	_, err = run(t, "plan", "--books", books, "--select", "b9")
	assert.EqualError(t, err, `unknown book "b9"`)
}

func TestRankCSV(t *testing.T) {
	courses := writeFile(t, "courses.csv", coursesCSV)

	out, err := run(t, "--format", "csv", "rank", "--courses", courses, "--ceiling", "4", "--strategy", "interest")
	require.NoError(t, err)
	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"interest", "c2", "Drawing", "2", "Mon 2", "4"}, records[1])
	assert.Equal(t, []string{"interest", "c3", "BIO120", "2", "Tue 1", "4"}, records[2])

	_, err = run(t, "rank", "--courses", courses, "--ceiling", "4", "--strategy", "random")
	assert.Error(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	out, err := run(t, "token", "--user", "s1", "--role", "ADMIN", "--secret", "cli-secret", "--ttl", "1h")
	require.NoError(t, err)

	var issued issuedToken
	require.NoError(t, json.Unmarshal([]byte(out), &issued))
	assert.WithinDuration(t, time.Now().Add(time.Hour), issued.ExpiresAt, time.Minute)

	claims, err := service.NewTokenService(service.TokenConfig{Secret: "cli-secret"}).ValidateToken(issued.Token)
	require.NoError(t, err)
	assert.Equal(t, "s1", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestParseComma(t *testing.T) {
	r, err := parseComma("tab")
	require.NoError(t, err)
	assert.Equal(t, '\t', r)

	r, err = parseComma(";")
	require.NoError(t, err)
	assert.Equal(t, ';', r)

	_, err = parseComma(";;")
	assert.Error(t, err)
}

func TestExportWritesFiles(t *testing.T) {
	inst := writeFile(t, "instance.yaml", scheduleYAML)
	out := t.TempDir()

	stdout, err := run(t, "export", "timetable", "--instance", inst, "--out", out)
	require.NoError(t, err)
	var saved savedExport
	require.NoError(t, json.Unmarshal([]byte(stdout), &saved))
	assert.Equal(t, out, filepath.Dir(saved.Path))
	assert.True(t, strings.HasSuffix(saved.Path, ".pdf"))
	data, err := os.ReadFile(saved.Path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
	assert.Equal(t, len(data), saved.Bytes)

	courses := writeFile(t, "courses.csv", coursesCSV)
	apps := writeFile(t, "applications.csv", applicationsCSV)
	stdout, err = run(t, "export", "allocations", "--courses", courses, "--applications", apps, "--as", "csv", "--out", out)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(stdout), &saved))
	data, err = os.ReadFile(saved.Path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "application,requester,course"))

	_, err = run(t, "export", "timetable", "--courses", courses, "--out", out)
	assert.EqualError(t, err, "venues and activities are both required")
}
