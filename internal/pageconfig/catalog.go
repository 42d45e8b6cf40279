package pageconfig

// Built-in page configuration. The Catalog page lists every reference
// table of the underwriting schema; its section order drives the
// progressive loader.

func col(db, display string) Column {
	return Column{DBColumn: db, DisplayName: display, Searchable: true}
}

func section(name, table string, columns ...Column) Section {
	return Section{
		Name:       name,
		Table:      table,
		Icon:       IconFor(table),
		Columns:    columns,
		AddButton:  true,
		EditButton: true,
	}
}

// CatalogPage returns the built-in Catalog page.
func CatalogPage() *Page {
	return &Page{
		Name: "Catalog",
		Sections: []Section{
			section("Venture", "venture",
				col("venture_id", "Venture ID"),
				col("venture_name", "Venture Name"),
				col("venture_city", "City"),
				col("venture_state", "State"),
			),
			section("Drive", "drive",
				col("drive_id", "Drive ID"),
				col("drive_name", "Drive Name"),
			),
			section("Employee Location", "employee_location",
				col("employee_location_id", "Location ID"),
				col("employee_location_name", "Location Name"),
				col("employee_location_city", "City"),
			),
			section("Employee Contact", "employee_contact",
				col("employee_id", "Employee ID"),
				col("employee_name_first", "First Name"),
				col("employee_name_last", "Last Name"),
				col("employee_email", "Email"),
			),
			section("Products", "products",
				col("products_id", "Product ID"),
				col("product_name", "Product Name"),
				col("product_code", "Product Code"),
			),
			section("Coverage", "coverage",
				col("coverage_id", "Coverage ID"),
				col("coverage_name", "Coverage Name"),
			),
			section("Company", "company",
				col("company_id", "Company ID"),
				col("company_name", "Company Name"),
			),
			section("Company Contact", "company_contact",
				col("company_contact_id", "Contact ID"),
				col("company_contact_first", "First Name"),
				col("company_contact_last", "Last Name"),
				col("company_contact_email", "Email"),
			),
			section("Company Location", "company_location",
				col("company_location_id", "Location ID"),
				col("company_location_city", "City"),
				col("company_location_state", "State"),
			),
			section("Stage", "stage",
				col("stage_id", "Stage ID"),
				col("stage_name", "Stage Name"),
			),
			section("Flow Origin", "flow_origin",
				col("flow_origin_id", "Flow Origin ID"),
				col("flow_origin_name", "Flow Origin Name"),
			),
			section("Workflow", "workflow",
				col("workflow_id", "Workflow ID"),
				col("workflow_name", "Workflow Name"),
				col("workflow_type", "Type"),
			),
			section("Task", "task",
				col("task_id", "Task ID"),
				col("task_name", "Task Name"),
				col("task_description", "Description"),
			),
			section("Workflow Detail", "workflow_detail",
				col("workflow_detail_id", "Detail ID"),
				col("workflow_sequence", "Sequence"),
				col("man_auto", "Manual/Auto"),
			),
			section("Orders", "orders",
				col("orders_id", "Order ID"),
				col("order_created", "Created"),
			),
			section("Applications", "applications",
				col("application_id", "Application ID"),
				col("application_name", "Application Name"),
			),
			section("Parameter Type", "parameter_type",
				col("parameter_type_id", "Type ID"),
				col("parameter_type_name", "Type Name"),
			),
			section("Parameter", "parameter",
				col("parameter_id", "Parameter ID"),
				col("parameter_name", "Parameter Name"),
			),
			section("Application Question", "application_question",
				col("application_question_id", "Question ID"),
				col("custom_question", "Custom Question"),
			),
			section("Application Response", "application_response",
				col("application_response_id", "Response ID"),
				col("response", "Response"),
			),
			section("Cover", "cover",
				col("cover_id", "Cover ID"),
				col("cover_name", "Cover Name"),
			),
			section("Options", "options",
				col("options_id", "Options ID"),
				col("option_name", "Option Name"),
			),
			section("Limits", "limits",
				col("limits_id", "Limits ID"),
				col("limit_text", "Limit Text"),
			),
			section("Retention", "retention",
				col("retention_id", "Retention ID"),
				col("retention_text", "Retention Text"),
			),
			section("Order Option", "order_option",
				col("order_option_id", "Option ID"),
				col("premium", "Premium"),
				col("bound", "Bound"),
			),
			section("Document", "document",
				col("document_id", "Document ID"),
				col("document_name", "Document Name"),
				col("document_number", "Document Number"),
			),
			section("Broker", "broker",
				col("broker_id", "Broker ID"),
				col("broker_name", "Broker Name"),
			),
			section("Broker Location", "broker_location",
				col("broker_location_id", "Location ID"),
				col("broker_city", "City"),
				col("broker_zip", "ZIP"),
			),
			section("Broker Contact", "broker_contact",
				col("broker_contact_id", "Contact ID"),
				col("broker_first_name", "First Name"),
				col("broker_last_name", "Last Name"),
				col("broker_email", "Email"),
			),
		},
	}
}

// NewBuiltinRegistry returns a registry with the built-in pages. The
// Machine Learning and Administration pages are declared but carry no
// sections yet.
func NewBuiltinRegistry() *Registry {
	r := NewRegistry()
	r.Register(CatalogPage())
	r.Register(&Page{Name: "Machine Learning"})
	r.Register(&Page{Name: "Administration"})
	return r
}
