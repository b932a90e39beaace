package ledger

// Category is a fixed taxonomy entry. Icon and Color are presentation only.
type Category struct {
	ID    string
	Name  string
	Icon  string
	Color string
	Type  Type
}

var (
	expenseCategories = []Category{
		{ID: "charcoal", Name: "木炭", Icon: "⚫", Color: "#585b70", Type: Expense},
		{ID: "flour", Name: "面粉", Icon: "🥡", Color: "#fab387", Type: Expense},
		{ID: "spices", Name: "大料", Icon: "🌿", Color: "#a6e3a1", Type: Expense},
		{ID: "syrup", Name: "糖稀", Icon: "🍯", Color: "#f9e2af", Type: Expense},
		{ID: "yeast", Name: "酵母", Icon: "🍞", Color: "#f5e0dc", Type: Expense},
		{ID: "bags", Name: "袋子", Icon: "🛍", Color: "#f5c2e7", Type: Expense},
		{ID: "sesame", Name: "芝麻", Icon: "🌱", Color: "#bac2de", Type: Expense},
		{ID: "salt", Name: "盐", Icon: "🧂", Color: "#9399b2", Type: Expense},
		{ID: "other", Name: "其他", Icon: "📝", Color: "#7f849c", Type: Expense},
	}
	incomeCategories = []Category{
		{ID: "alipay", Name: "支付宝", Icon: "🟦", Color: "#89b4fa", Type: Income},
		{ID: "wechat", Name: "微信", Icon: "🟩", Color: "#a6e3a1", Type: Income},
		{ID: "cash", Name: "现金", Icon: "💴", Color: "#f9e2af", Type: Income},
	}
)

// Registry is the static category table, split into income and expense
// groups. Lookups run over expense entries first, then income.
type Registry struct {
	income  []Category
	expense []Category
	all     []Category
}

// DefaultRegistry returns the compiled-in categories.
func DefaultRegistry() *Registry {
	return NewRegistry(incomeCategories, expenseCategories)
}

// NewRegistry builds a registry from the two groups. Neither group may be
// empty and ids must be unique across both; violations panic since the
// table is compiled in.
func NewRegistry(income, expense []Category) *Registry {
	if len(income) == 0 || len(expense) == 0 {
		panic("ledger: registry needs income and expense categories")
	}
	r := &Registry{
		income:  make([]Category, len(income)),
		expense: make([]Category, len(expense)),
	}
	for i, c := range income {
		c.Type = Income
		r.income[i] = c
	}
	for i, c := range expense {
		c.Type = Expense
		r.expense[i] = c
	}
	r.all = append(append([]Category(nil), r.expense...), r.income...)
	seen := make(map[string]struct{}, len(r.all))
	for _, c := range r.all {
		if _, ok := seen[c.ID]; ok {
			panic("ledger: duplicate category id " + c.ID)
		}
		seen[c.ID] = struct{}{}
	}
	return r
}

// ForType returns the categories of one group in display order.
func (r *Registry) ForType(t Type) []Category {
	if t == Income {
		return append([]Category(nil), r.income...)
	}
	return append([]Category(nil), r.expense...)
}

// Fallback is the placeholder used when a stored id no longer resolves.
func (r *Registry) Fallback() Category {
	return r.all[len(r.all)-1]
}

// FindByID returns the category with id, or Fallback when absent.
func (r *Registry) FindByID(id string) Category {
	if c, ok := r.Lookup(id); ok {
		return c
	}
	return r.Fallback()
}

// Lookup is FindByID without the fallback.
func (r *Registry) Lookup(id string) (Category, bool) {
	for _, c := range r.all {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// FindByName matches name exactly against the display names.
func (r *Registry) FindByName(name string) (Category, bool) {
	for _, c := range r.all {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

// DefaultFor returns the first category of the type, used to pre-select a
// category when an entry starts.
func (r *Registry) DefaultFor(t Type) Category {
	if t == Income {
		return r.income[0]
	}
	return r.expense[0]
}
