package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cajapos/caja/pkg/catalog"
	"github.com/cajapos/caja/pkg/session"
)

// Product form field order.
const (
	fieldName = iota
	fieldDescription
	fieldPrice
	fieldStock
	fieldCategory
	fieldSubcategory
	fieldCount
)

var productFieldLabels = [fieldCount]string{
	"Name", "Description", "Price", "Stock", "Category id", "Subcategory id",
}

// productForm is the modal create/edit form for a product. The category
// input is reactive: every edit re-resolves the category name and the valid
// subcategory options, and clears a subcategory that no longer applies.
type productForm struct {
	session       session.ProductSession
	inputs        [fieldCount]textinput.Model
	focus         int
	categories    []catalog.Category
	subcategories []catalog.Subcategory
	err           string
}

func newProductForm(s session.ProductSession, categories []catalog.Category, subs []catalog.Subcategory) productForm {
	f := productForm{
		session:       s,
		categories:    categories,
		subcategories: subs,
	}

	for i := range f.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 64
		f.inputs[i] = in
	}
	f.inputs[fieldName].SetValue(s.Name)
	f.inputs[fieldDescription].SetValue(s.Description)
	if s.Price != 0 {
		f.inputs[fieldPrice].SetValue(strconv.FormatFloat(s.Price, 'f', -1, 64))
	}
	if s.Stock != 0 {
		f.inputs[fieldStock].SetValue(strconv.Itoa(s.Stock))
	}
	if s.CategoryID != 0 {
		f.inputs[fieldCategory].SetValue(strconv.FormatInt(s.CategoryID, 10))
	}
	if s.SubcategoryID != nil {
		f.inputs[fieldSubcategory].SetValue(strconv.FormatInt(*s.SubcategoryID, 10))
	}

	f.inputs[fieldName].Focus()
	return f
}

// Update routes a key to the focused input and keeps the session's category
// state in sync with the category field.
func (f *productForm) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down", "enter":
			f.setFocus((f.focus + 1) % fieldCount)
			return nil
		case "shift+tab", "up":
			f.setFocus((f.focus + fieldCount - 1) % fieldCount)
			return nil
		}
	}

	var cmd tea.Cmd
	before := f.inputs[fieldCategory].Value()
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)

	if f.focus == fieldCategory && f.inputs[fieldCategory].Value() != before {
		f.onCategoryChanged()
	}
	return cmd
}

func (f *productForm) setFocus(idx int) {
	f.inputs[f.focus].Blur()
	f.focus = idx
	f.inputs[f.focus].Focus()
}

// onCategoryChanged mirrors the category field into the session: it resolves
// the denormalized name, clears the chosen subcategory and resets the
// subcategory input, since the old choice is invalid under the new parent.
func (f *productForm) onCategoryChanged() {
	id, _ := strconv.ParseInt(strings.TrimSpace(f.inputs[fieldCategory].Value()), 10, 64)
	f.session.SetCategory(id, f.categories)
	f.inputs[fieldSubcategory].SetValue("")
}

// submit parses the inputs into the session and validates the business
// rules. On success the returned session is ready for the controller.
func (f *productForm) submit() (session.ProductSession, error) {
	s := f.session
	s.Name = strings.TrimSpace(f.inputs[fieldName].Value())
	s.Description = strings.TrimSpace(f.inputs[fieldDescription].Value())

	if raw := strings.TrimSpace(f.inputs[fieldPrice].Value()); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return s, fmt.Errorf("price must be a number")
		}
		s.Price = price
	} else {
		s.Price = 0
	}

	if raw := strings.TrimSpace(f.inputs[fieldStock].Value()); raw != "" {
		stock, err := strconv.Atoi(raw)
		if err != nil {
			return s, fmt.Errorf("stock must be an integer")
		}
		s.Stock = stock
	} else {
		s.Stock = 0
	}

	if raw := strings.TrimSpace(f.inputs[fieldSubcategory].Value()); raw != "" {
		subID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return s, fmt.Errorf("subcategory id must be an integer")
		}
		valid := false
		for _, sub := range s.SubcategoryOptions(f.subcategories) {
			if sub.ID == subID {
				valid = true
				break
			}
		}
		if !valid {
			return s, fmt.Errorf("subcategory %d does not belong to category %q", subID, s.CategoryName)
		}
		s.SubcategoryID = &subID
	} else {
		s.SubcategoryID = nil
	}

	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

// View renders the form
func (f productForm) View() string {
	var b strings.Builder

	title := "New product"
	if f.session.Editing() {
		title = fmt.Sprintf("Edit product %d", f.session.ID)
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	for i := range f.inputs {
		label := productFieldLabels[i]
		if i == f.focus {
			b.WriteString(activeFieldLabelStyle.Render(label))
		} else {
			b.WriteString(fieldLabelStyle.Render(label))
		}
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n")

		if i == fieldCategory && f.session.CategoryName != "" {
			b.WriteString(fieldLabelStyle.Render(""))
			b.WriteString(subtitleStyle.Render(f.session.CategoryName))
			b.WriteString("\n")
		}
		if i == fieldSubcategory {
			opts := f.session.SubcategoryOptions(f.subcategories)
			if len(opts) > 0 {
				names := make([]string, len(opts))
				for j, sub := range opts {
					names[j] = fmt.Sprintf("%d=%s", sub.ID, sub.Name)
				}
				b.WriteString(fieldLabelStyle.Render(""))
				b.WriteString(mutedStyle.Render(strings.Join(names, "  ")))
				b.WriteString("\n")
			}
		}
	}

	if f.err != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(f.err))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(FormatKey("tab/↑/↓", "field") + " • " + FormatKey("ctrl+s", "save") + " • " + FormatKey("esc", "cancel")))

	return activeBoxStyle.Render(b.String())
}

// masterForm is the shared create form for categories and subcategories.
// Subcategories additionally need a parent category id.
type masterForm struct {
	isSubcategory bool
	name          textinput.Model
	category      textinput.Model
	focus         int
	err           string
}

func newMasterForm(isSubcategory bool) masterForm {
	name := textinput.New()
	name.Prompt = ""
	name.CharLimit = 64
	name.Focus()

	category := textinput.New()
	category.Prompt = ""
	category.CharLimit = 16

	return masterForm{isSubcategory: isSubcategory, name: name, category: category}
}

// Update routes keys to the focused input.
func (f *masterForm) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok && f.isSubcategory {
		switch key.String() {
		case "tab", "down", "shift+tab", "up":
			if f.focus == 0 {
				f.focus = 1
				f.name.Blur()
				f.category.Focus()
			} else {
				f.focus = 0
				f.category.Blur()
				f.name.Focus()
			}
			return nil
		}
	}

	var cmd tea.Cmd
	if f.focus == 0 {
		f.name, cmd = f.name.Update(msg)
	} else {
		f.category, cmd = f.category.Update(msg)
	}
	return cmd
}

// categorySession builds the category payload.
func (f *masterForm) categorySession() session.CategorySession {
	return session.CategorySession{Name: strings.TrimSpace(f.name.Value())}
}

// subcategorySession builds the subcategory payload.
func (f *masterForm) subcategorySession() (session.SubcategorySession, error) {
	s := session.SubcategorySession{Name: strings.TrimSpace(f.name.Value())}
	raw := strings.TrimSpace(f.category.Value())
	if raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return s, fmt.Errorf("category id must be an integer")
		}
		s.CategoryID = id
	}
	return s, nil
}

// View renders the form
func (f masterForm) View() string {
	var b strings.Builder

	if f.isSubcategory {
		b.WriteString(titleStyle.Render("New subcategory"))
	} else {
		b.WriteString(titleStyle.Render("New category"))
	}
	b.WriteString("\n\n")

	if f.focus == 0 {
		b.WriteString(activeFieldLabelStyle.Render("Name"))
	} else {
		b.WriteString(fieldLabelStyle.Render("Name"))
	}
	b.WriteString(f.name.View())
	b.WriteString("\n")

	if f.isSubcategory {
		if f.focus == 1 {
			b.WriteString(activeFieldLabelStyle.Render("Category id"))
		} else {
			b.WriteString(fieldLabelStyle.Render("Category id"))
		}
		b.WriteString(f.category.View())
		b.WriteString("\n")
	}

	if f.err != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(f.err))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(FormatKey("ctrl+s", "save") + " • " + FormatKey("esc", "cancel")))

	return activeBoxStyle.Render(b.String())
}
