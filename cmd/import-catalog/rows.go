package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nutrifit/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

// parseNumber reads a nutrient column. Trace amounts ("t") and blanks count
// as zero and thousands separators are dropped.
func parseNumber(raw string) (float64, error) {
	v := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if v == "" || strings.EqualFold(v, "t") {
		return 0, nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", raw)
	}
	return n, nil
}

// header maps column names to their index, ignoring case and surrounding space
type header map[string]int

func readHeader(r *csv.Reader) (header, error) {
	names, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	h := make(header, len(names))
	for i, name := range names {
		h[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	return h, nil
}

// get returns the first present column of keys in record
func (h header) get(record []string, keys ...string) string {
	for _, k := range keys {
		if i, ok := h[k]; ok && i < len(record) {
			return strings.TrimSpace(record[i])
		}
	}
	return ""
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return cr
}

// readFoods parses a food CSV with the columns
// Food, Measure, Grams, Calories, Protein, Fat, Sat.Fat, Fiber, Carbs, Category.
func readFoods(r io.Reader) ([]models.Food, error) {
	cr := newReader(r)
	h, err := readHeader(cr)
	if err != nil {
		return nil, err
	}
	if _, ok := h["food"]; !ok {
		return nil, errors.New("food csv is missing the Food column")
	}

	var foods []models.Food
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return foods, nil
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		fields := make(map[string]string, len(h))
		for name := range h {
			fields[name] = h.get(record, name)
		}
		food, err := foodFromFields(fields)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if food.Name != "" {
			foods = append(foods, food)
		}
	}
}

// foodFromFields builds a food from lower-cased column names
func foodFromFields(fields map[string]string) (models.Food, error) {
	food := models.Food{
		Name:     fields["food"],
		Measure:  fields["measure"],
		Category: fields["category"],
	}
	numbers := []struct {
		key string
		dst *float64
	}{
		{"grams", &food.Grams},
		{"calories", &food.Calories},
		{"protein", &food.Protein},
		{"fat", &food.Fat},
		{"sat.fat", &food.SatFat},
		{"fiber", &food.Fiber},
		{"carbs", &food.Carbs},
	}
	for _, n := range numbers {
		v, err := parseNumber(fields[n.key])
		if err != nil {
			return food, fmt.Errorf("%s: %w", n.key, err)
		}
		*n.dst = v
	}
	return food, nil
}

// readExercises parses an exercise CSV with the columns
// id, name, bodyPart, equipment, gifUrl, target.
func readExercises(r io.Reader) ([]models.Exercise, error) {
	cr := newReader(r)
	h, err := readHeader(cr)
	if err != nil {
		return nil, err
	}
	if _, ok := h["name"]; !ok {
		return nil, errors.New("exercise csv is missing the name column")
	}

	var exercises []models.Exercise
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return exercises, nil
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		ex, err := exerciseFromFields(
			h.get(record, "id"),
			h.get(record, "name"),
			h.get(record, "bodypart"),
			h.get(record, "equipment"),
			h.get(record, "gifurl", "gifirl"),
			h.get(record, "target"),
		)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if ex.Name != "" {
			exercises = append(exercises, ex)
		}
	}
}

func exerciseFromFields(id, name, bodyPart, equipment, gifURL, target string) (models.Exercise, error) {
	ex := models.Exercise{
		Name:      name,
		BodyPart:  bodyPart,
		Equipment: equipment,
		GifURL:    gifURL,
		Target:    target,
	}
	if id != "" {
		n, err := parseNumber(id)
		if err != nil {
			return ex, fmt.Errorf("id: %w", err)
		}
		ex.ExternalID = int(n)
	}
	return ex, nil
}

// docString renders a legacy document field, which may be stored as a string or a number
func docString(doc bson.M, key string) string {
	v, ok := doc[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return fmt.Sprint(v)
}

func foodFromDoc(doc bson.M) (models.Food, error) {
	fields := make(map[string]string, len(doc))
	for k := range doc {
		fields[strings.ToLower(k)] = docString(doc, k)
	}
	return foodFromFields(fields)
}

func exerciseFromDoc(doc bson.M) (models.Exercise, error) {
	gif := docString(doc, "gifUrl")
	if gif == "" {
		gif = docString(doc, "gifIrl")
	}
	return exerciseFromFields(
		docString(doc, "id"),
		docString(doc, "name"),
		docString(doc, "bodyPart"),
		docString(doc, "equipment"),
		gif,
		docString(doc, "target"),
	)
}
