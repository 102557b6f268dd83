package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/noah-isme/campus-allocator/internal/models"
)

// ReadCSV decodes rows from r into T using its csv tags. comma selects the field delimiter.
func ReadCSV[T any](r io.Reader, comma rune) ([]T, error) {
	reader := csv.NewReader(r)
	if comma != 0 {
		reader.Comma = comma
	}
	reader.TrimLeadingSpace = true

	rows := []T{}
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func loadCSV[T any](path string, comma rune) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := ReadCSV[T](f, comma)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return rows, nil
}

// LoadCourses reads a course catalog file.
func LoadCourses(path string, comma rune) ([]models.Course, error) {
	return loadCSV[models.Course](path, comma)
}

// LoadApplications reads a course application file.
func LoadApplications(path string, comma rune) ([]models.CourseApplication, error) {
	return loadCSV[models.CourseApplication](path, comma)
}

// LoadVenues reads a venue file.
func LoadVenues(path string, comma rune) ([]models.Venue, error) {
	return loadCSV[models.Venue](path, comma)
}

// LoadActivities reads a club activity file.
func LoadActivities(path string, comma rune) ([]models.ClubActivity, error) {
	return loadCSV[models.ClubActivity](path, comma)
}

// LoadBooks reads a book list.
func LoadBooks(path string, comma rune) ([]models.Book, error) {
	return loadCSV[models.Book](path, comma)
}
