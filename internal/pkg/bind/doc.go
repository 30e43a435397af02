// Package bind turns marked values into named SQL bind variables.
//
// A value is marked for binding with Product, optionally under a prefix:
//
//	bind.Product(p)                    // name, price
//	bind.Product(p).WithPrefix("item") // item.name, item.price
//
// A Factory reads the Marker, enumerates the value's fields (struct fields or
// string map keys) and produces ordered Bindings. Field names come from the
// bind, spanner or db struct tags, falling back to the snake_case field name.
//
// Statement couples SQL text using @name placeholders with marked values and
// resolves them for Cloud Spanner or pgx:
//
//	f := bind.NewFactory(bind.WithSeparator(bind.ParamSeparator))
//	stmt, err := bind.SQL("UPDATE products SET name = @new_name WHERE product_id = @product_id").
//		With(bind.Product(change).WithPrefix("new")).
//		Param("product_id", id).
//		Spanner(f)
//
// Spanner scans the SQL with GoogleSQL rules and NamedArgs with PostgreSQL
// rules, so string literals are recognised the way each server reads them.
// Placeholders referenced by the SQL but not bound are reported with
// ErrMissingParam; bindings the SQL does not use are dropped. Names that cannot
// be written as @name (the dotted names of Default) fail with ErrInvalidName.
package bind
