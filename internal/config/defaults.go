package config

// DefaultDialect is used when a project's config names none.
const DefaultDialect = "ansi"

// ApplyDefaults fills in a ProjectConfig's unset fields.
func ApplyDefaults(c *ProjectConfig) {
	if c == nil {
		return
	}
	if c.Dialect == "" {
		c.Dialect = DefaultDialect
	}
	if c.Warehouse != nil {
		ApplyWarehouseDefaults(c.Warehouse)
	}
}

// ApplyWarehouseDefaults fills in a WarehouseConfig's connection defaults.
func ApplyWarehouseDefaults(w *WarehouseConfig) {
	if w == nil {
		return
	}
	if w.Driver == "" {
		w.Driver = "postgres"
	}
	if w.Port == 0 && w.Driver == "postgres" {
		w.Port = 5432
	}
	if w.SSLMode == "" {
		w.SSLMode = "disable"
	}
}
