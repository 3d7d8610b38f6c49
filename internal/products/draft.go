package products

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/santoshkumarshah266-jpg/storeadmin/internal/models"
	"github.com/shopspring/decimal"
)

var ErrInvalidDraft = errors.New("products: invalid draft")

// LocalFile is an image picked by the admin but not uploaded yet.
type LocalFile struct {
	Name string
	Data []byte
}

// Draft is the product editor's form state. Scalar fields are kept as the
// admin typed them; they are parsed only when the draft is saved.
type Draft struct {
	ProductID   string // empty while creating
	Name        string
	Price       string
	Description string
	Colors      string // comma separated
	Sizes       string // comma separated
	Stock       string
	Active      bool

	ExistingImages []string    // already stored URLs the product keeps
	Files          []LocalFile // picked files, uploaded on save
}

func newDraft() *Draft {
	return &Draft{Active: true}
}

func draftFrom(p models.Product) *Draft {
	return &Draft{
		ProductID:      p.ProductID,
		Name:           p.Name,
		Price:          strconv.FormatFloat(p.Price, 'f', -1, 64),
		Description:    p.Description,
		Colors:         strings.Join(p.Colors, ", "),
		Sizes:          strings.Join(p.Sizes, ", "),
		Stock:          strconv.Itoa(p.Stock),
		Active:         p.Active,
		ExistingImages: append([]string(nil), p.Images...),
	}
}

// IsNew reports whether saving the draft creates a product.
func (d *Draft) IsNew() bool {
	return d.ProductID == ""
}

func (d *Draft) SelectFiles(files ...LocalFile) {
	d.Files = append(d.Files, files...)
}

// RemoveSelectedFile drops the i-th picked file. It reports false when i is
// out of range.
func (d *Draft) RemoveSelectedFile(i int) bool {
	if i < 0 || i >= len(d.Files) {
		return false
	}
	d.Files = append(d.Files[:i:i], d.Files[i+1:]...)
	return true
}

// RemoveExistingImage drops the i-th stored URL. It reports false when i is
// out of range.
func (d *Draft) RemoveExistingImage(i int) bool {
	if i < 0 || i >= len(d.ExistingImages) {
		return false
	}
	d.ExistingImages = append(d.ExistingImages[:i:i], d.ExistingImages[i+1:]...)
	return true
}

// Validate checks the fields that must parse before anything is uploaded.
func (d *Draft) Validate() error {
	_, _, err := d.numbers()
	if err != nil {
		return err
	}
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidDraft)
	}
	return nil
}

func (d *Draft) numbers() (float64, int, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(d.Price))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: price %q is not a number", ErrInvalidDraft, d.Price)
	}
	if !price.IsPositive() {
		return 0, 0, fmt.Errorf("%w: price must be positive", ErrInvalidDraft)
	}
	stock, err := strconv.Atoi(strings.TrimSpace(d.Stock))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: stock %q is not a whole number", ErrInvalidDraft, d.Stock)
	}
	if stock < 0 {
		return 0, 0, fmt.Errorf("%w: stock cannot be negative", ErrInvalidDraft)
	}
	return price.InexactFloat64(), stock, nil
}

// Payload builds the create/update body: retained URLs first, then the
// newly uploaded ones.
func (d *Draft) Payload(uploaded []string) (models.ProductInput, error) {
	if err := d.Validate(); err != nil {
		return models.ProductInput{}, err
	}
	price, stock, _ := d.numbers()

	images := make([]string, 0, len(d.ExistingImages)+len(uploaded))
	images = append(images, d.ExistingImages...)
	images = append(images, uploaded...)

	return models.ProductInput{
		Name:        strings.TrimSpace(d.Name),
		Price:       price,
		Description: d.Description,
		Colors:      SplitList(d.Colors),
		Sizes:       SplitList(d.Sizes),
		Stock:       stock,
		Images:      images,
		Active:      d.Active,
	}, nil
}

// SplitList splits comma separated text into trimmed, non-empty entries.
// The result is never nil.
func SplitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
