package cli

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-allocator/internal/catalog"
	"github.com/noah-isme/campus-allocator/internal/dto"
	"github.com/noah-isme/campus-allocator/internal/service"
	"github.com/noah-isme/campus-allocator/pkg/export"
	"github.com/noah-isme/campus-allocator/pkg/storage"
)

// ExportCmd renders an allocation or timetable to a CSV or PDF file.
type ExportCmd struct {
	Kind         string        `arg:"" help:"What to export." enum:"allocations,timetable"`
	Instance     string        `help:"YAML instance." type:"path" short:"i"`
	Courses      string        `help:"Course catalog CSV." type:"path"`
	Applications string        `help:"Application CSV." type:"path"`
	Venues       string        `help:"Venue CSV." type:"path"`
	Activities   string        `help:"Club activity CSV." type:"path"`
	As           string        `help:"File format." enum:"csv,pdf" default:"pdf"`
	Out          string        `help:"Directory receiving the file." type:"path" default:"./exports"`
	Prune        time.Duration `help:"Also delete exports older than this. Zero keeps everything."`
}

type savedExport struct {
	Path   string   `json:"path"`
	Bytes  int      `json:"bytes"`
	Pruned []string `json:"pruned,omitempty"`
}

// staticSnapshot serves one precomputed allocation to the export service.
type staticSnapshot struct {
	result *dto.AllocationResponse
}

func (s staticSnapshot) Current(context.Context) (*dto.AllocationResponse, bool, error) {
	return s.result, false, nil
}

func (c *ExportCmd) Run(ctx *Context) error {
	inst, err := loadInstance(c.Instance)
	if err != nil {
		return err
	}
	if err := c.loadFiles(inst, ctx.Comma); err != nil {
		return err
	}

	schedules := service.NewActivityScheduleService(nil, nil, nil, nil, ctx.Logger, service.ScheduleConfig{TraceSearch: ctx.Trace})
	var snapshot staticSnapshot
	if c.Kind == "allocations" {
		if len(inst.Courses) == 0 {
			return errors.New("no courses given: use --instance or --courses")
		}
		allocations := service.NewAllocationService(nil, nil, nil, nil, nil, ctx.Logger, service.AllocationConfig{})
		snapshot.result, err = allocations.Allocate(context.Background(), dto.AllocateRequest{
			Courses:      coursePayloads(inst.Courses),
			Applications: applicationPayloads(inst.Applications),
			Prior:        inst.Prior,
		})
		if err != nil {
			return err
		}
	} else if len(inst.Venues) == 0 || len(inst.Activities) == 0 {
		return errors.New("venues and activities are both required")
	}

	exports := service.NewExportService(snapshot, schedules, export.NewCSVExporter(), export.NewPDFExporter(), ctx.Logger)
	var file *dto.ExportFile
	if c.Kind == "allocations" {
		file, err = exports.Allocation(context.Background(), c.As)
	} else {
		file, err = exports.Timetable(context.Background(), dto.ScheduleActivitiesRequest{
			Venues:     venuePayloads(inst.Venues),
			Activities: activityPayloads(inst.Activities),
		}, c.As)
	}
	if err != nil {
		return err
	}

	store, err := storage.NewLocalStorage(c.Out)
	if err != nil {
		return err
	}
	saved := savedExport{Bytes: len(file.Data)}
	if c.Prune > 0 {
		if saved.Pruned, err = store.Prune(c.Prune); err != nil {
			return err
		}
	}
	if saved.Path, err = store.Save(file.Filename, file.Data); err != nil {
		return err
	}
	ctx.Logger.Info("export written", zap.String("kind", c.Kind), zap.String("path", saved.Path))

	data := export.Dataset{
		Headers: []string{"path", "bytes"},
		Rows:    []map[string]string{{"path": saved.Path, "bytes": strconv.Itoa(saved.Bytes)}},
	}
	return ctx.render(saved, data, "")
}

func (c *ExportCmd) loadFiles(inst *catalog.Instance, comma rune) error {
	var err error
	if c.Courses != "" {
		if inst.Courses, err = catalog.LoadCourses(c.Courses, comma); err != nil {
			return err
		}
	}
	if c.Applications != "" {
		if inst.Applications, err = catalog.LoadApplications(c.Applications, comma); err != nil {
			return err
		}
	}
	if c.Venues != "" {
		if inst.Venues, err = catalog.LoadVenues(c.Venues, comma); err != nil {
			return err
		}
	}
	if c.Activities != "" {
		if inst.Activities, err = catalog.LoadActivities(c.Activities, comma); err != nil {
			return err
		}
	}
	return nil
}
