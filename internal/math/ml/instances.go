package ml

import (
	"fmt"
	"strconv"

	"github.com/drakos74/free-knn/internal/model"
	"github.com/sjwhitworth/golearn/base"
)

// schema holds the attributes shared between the training and the prediction instances.
// golearn only predicts on instances whose attributes are equal to the training ones,
// so both sides are built from the same attribute pointers.
type schema struct {
	features []base.Attribute
	class    *base.CategoricalAttribute
}

func newSchema(dim int) *schema {
	features := make([]base.Attribute, dim)
	for i := range features {
		features[i] = base.NewFloatAttribute(fmt.Sprintf("pixel_%d", i))
	}
	class := base.NewCategoricalAttribute()
	class.SetName("label")
	return &schema{
		features: features,
		class:    class,
	}
}

func (s *schema) dim() int {
	return len(s.features)
}

// instances converts the dataset into golearn dense instances.
func (s *schema) instances(set model.Dataset) (*base.DenseInstances, error) {
	if set.Len() > 0 && set.Dim() != s.dim() {
		return nil, fmt.Errorf("%w: expected %d features, got %d", ErrDimension, s.dim(), set.Dim())
	}
	if i := set.Ragged(); i >= 0 {
		return nil, fmt.Errorf("%w: record %d has %d features, expected %d", ErrDimension, i, set.Records[i].Dim(), s.dim())
	}

	inst := base.NewDenseInstances()
	specs := make([]base.AttributeSpec, s.dim())
	for i, a := range s.features {
		specs[i] = inst.AddAttribute(a)
	}
	classSpec := inst.AddAttribute(s.class)
	if err := inst.AddClassAttribute(s.class); err != nil {
		return nil, fmt.Errorf("could not set class attribute: %w", err)
	}
	if err := inst.Extend(set.Len()); err != nil {
		return nil, fmt.Errorf("could not allocate %d rows: %w", set.Len(), err)
	}

	m := set.Matrix()
	for i, r := range set.Records {
		for j, v := range m.RawRowView(i) {
			inst.Set(specs[j], i, base.PackFloatToBytes(v))
		}
		inst.Set(classSpec, i, s.class.GetSysValFromString(strconv.Itoa(r.Label)))
	}
	return inst, nil
}

// labels reads back the class column of the given grid.
func labels(grid base.FixedDataGrid) ([]int, error) {
	_, rows := grid.Size()
	out := make([]int, rows)
	for i := 0; i < rows; i++ {
		class := base.GetClass(grid, i)
		label, err := strconv.Atoi(class)
		if err != nil {
			return nil, fmt.Errorf("could not parse predicted class '%s' at row %d: %w", class, i, err)
		}
		out[i] = label
	}
	return out, nil
}
