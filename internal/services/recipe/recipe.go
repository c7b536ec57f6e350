package recipe

import (
	"encoding/json"
	"strconv"

	apperrors "github.com/socialchef/chefgpt/internal/errors"
)

// StringOrNumber accepts either a JSON string or number and keeps it as text.
type StringOrNumber string

func (s *StringOrNumber) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = ""
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = StringOrNumber(str)
		return nil
	}
	var num float64
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*s = StringOrNumber(strconv.FormatFloat(num, 'f', -1, 64))
	return nil
}

type Macros struct {
	Calories int            `json:"calories"`
	Protein  StringOrNumber `json:"protein"`
}

// Recipe is a generated recipe as returned to the UI.
type Recipe struct {
	Name          string   `json:"name" validate:"required"`
	Description   string   `json:"description,omitempty"`
	Ingredients   []string `json:"ingredients" validate:"required,min=1,dive,required"`
	Steps         []string `json:"steps" validate:"required,min=1,dive,required"`
	Macros        Macros   `json:"macros"`
	VisualSummary string   `json:"visual_summary"`
}

// Result is the outcome of a recipe generation request. Failures carry a
// user-facing message in Error and the classified cause in Err.
type Result struct {
	Success bool                `json:"success"`
	Error   string              `json:"error,omitempty"`
	Recipe  *Recipe             `json:"recipe,omitempty"`
	Err     *apperrors.AppError `json:"-"`
}

func success(r *Recipe) Result {
	return Result{Success: true, Recipe: r}
}

func failure(err *apperrors.AppError) Result {
	return Result{Success: false, Error: err.Message, Err: err}
}
