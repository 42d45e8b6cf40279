package schema

// Built-in descriptors for the underwriting schema. These are the
// compiled-in defaults; rows in the _tables meta table override them
// at startup (see Loader).

func auto(name string) Field {
	return Field{Name: name, Kind: KindAuto}
}

func text(name string) Field {
	return Field{Name: name, Kind: KindText, Nullable: true, Blank: true}
}

func fk(name, target string) Field {
	return Field{Name: name, Kind: KindInteger, Nullable: true, Blank: true, References: target}
}

func fkRequired(name, target string) Field {
	return Field{Name: name, Kind: KindInteger, References: target}
}

func boolean(name string) Field {
	return Field{Name: name, Kind: KindBoolean, Default: false}
}

func decimal(name string) Field {
	return Field{Name: name, Kind: KindDecimal, Precision: 20, Scale: 2, Nullable: true, Blank: true}
}

func integer(name string) Field {
	return Field{Name: name, Kind: KindInteger, Nullable: true, Blank: true}
}

func timeOfDay(name string) Field {
	return Field{Name: name, Kind: KindTime, Nullable: true, Blank: true}
}

// BuiltinTables returns descriptors for every business table.
func BuiltinTables() []*Table {
	return []*Table{
		{Name: "venture", PrimaryKey: "venture_id", Fields: []Field{
			auto("venture_id"),
			text("venture_name"),
			text("venture_address_1"),
			text("venture_address_2"),
			text("venture_city"),
			text("venture_state"),
			text("venture_zip"),
		}},
		{Name: "coverage", PrimaryKey: "coverage_id", Fields: []Field{
			auto("coverage_id"),
			text("coverage_name"),
		}},
		{Name: "products", Label: "Products", PrimaryKey: "products_id", Fields: []Field{
			auto("products_id"),
			text("product_name"),
			fk("venture_id", "venture"),
			fk("coverage_id", "coverage"),
			text("product_code"),
			text("product_prefix"),
			text("documents_name"),
		}},
		{Name: "company", PrimaryKey: "company_id", Fields: []Field{
			auto("company_id"),
			text("company_name"),
		}},
		{Name: "company_contact", PrimaryKey: "company_contact_id", Fields: []Field{
			auto("company_contact_id"),
			fk("company_id", "company"),
			text("company_contact_first"),
			text("company_contact_last"),
			text("company_contact_phone"),
			text("company_contact_email"),
			text("company_contact_title"),
			text("company_contact_salutation"),
			text("company_web"),
		}},
		{Name: "company_location", PrimaryKey: "company_location_id", Fields: []Field{
			auto("company_location_id"),
			fk("company_id", "company"),
			text("company_location_address_1"),
			text("company_location_address_2"),
			text("company_location_city"),
			text("company_location_state"),
			text("company_location_zip"),
			boolean("company_mailing"),
		}},
		{Name: "employee_location", PrimaryKey: "employee_location_id", Fields: []Field{
			auto("employee_location_id"),
			fk("venture_id", "venture"),
			text("employee_location_name"),
			text("employee_location_address_1"),
			text("employee_location_address_2"),
			text("employee_location_city"),
			text("employee_location_state"),
			text("employee_location_zip"),
		}},
		{Name: "employee_contact", PrimaryKey: "employee_id", Fields: []Field{
			auto("employee_id"),
			fk("employee_location_id", "employee_location"),
			text("employee_name_first"),
			text("employee_name_last"),
			text("employee_email"),
			text("employee_name_combined"),
		}},
		{Name: "stage", PrimaryKey: "stage_id", Fields: []Field{
			auto("stage_id"),
			text("stage_name"),
		}},
		{Name: "flow_origin", PrimaryKey: "flow_origin_id", Fields: []Field{
			auto("flow_origin_id"),
			text("flow_origin_name"),
		}},
		{Name: "workflow", PrimaryKey: "workflow_id", Fields: []Field{
			auto("workflow_id"),
			text("workflow_name"),
			text("workflow_type"),
		}},
		{Name: "task", PrimaryKey: "task_id", Fields: []Field{
			auto("task_id"),
			text("task_name"),
			text("task_description"),
			text("task_display"),
			text("subroutine_name"),
		}},
		{Name: "workflow_detail", PrimaryKey: "workflow_detail_id", Fields: []Field{
			auto("workflow_detail_id"),
			fk("workflow_id", "workflow"),
			fk("stage_id", "stage"),
			fk("task_id", "task"),
			integer("workflow_sequence"),
			boolean("man_auto"),
		}},
		{Name: "orders", Label: "Orders", PrimaryKey: "orders_id", Fields: []Field{
			auto("orders_id"),
			fk("stage_id", "stage"),
			fk("employee_id", "employee_contact"),
			fk("flow_origin_id", "flow_origin"),
			fk("company_id", "company"),
			fk("products_id", "products"),
			fk("venture_id", "venture"),
			timeOfDay("order_created"),
			fk("workflow_id", "workflow"),
			fk("workflow_detail_id", "workflow_detail"),
		}},
		{Name: "applications", Label: "Applications", PrimaryKey: "application_id", Fields: []Field{
			auto("application_id"),
			text("application_name"),
			fk("product_id", "products"),
		}},
		{Name: "parameter_type", PrimaryKey: "parameter_type_id", Fields: []Field{
			auto("parameter_type_id"),
			text("parameter_type_name"),
		}},
		{Name: "parameter", PrimaryKey: "parameter_id", Fields: []Field{
			auto("parameter_id"),
			text("parameter_name"),
			fk("parameter_type_id", "parameter_type"),
			text("parameter_docs"),
			boolean("parameter_quote"),
			boolean("parameter_binder"),
			boolean("parameter_policy"),
		}},
		{Name: "application_question", PrimaryKey: "application_question_id", Fields: []Field{
			auto("application_question_id"),
			fk("application_id", "applications"),
			text("custom_question"),
			fk("parameter_id", "parameter"),
		}},
		{Name: "application_response", PrimaryKey: "application_response_id", Fields: []Field{
			auto("application_response_id"),
			fk("application_id", "applications"),
			fk("application_question_id", "application_question"),
			fk("order_id", "orders"),
			text("response"),
		}},
		{Name: "cover", PrimaryKey: "cover_id", Fields: []Field{
			auto("cover_id"),
			text("cover_name"),
			fk("product_id", "products"),
		}},
		{Name: "options", Label: "Options", PrimaryKey: "options_id", Fields: []Field{
			auto("options_id"),
			text("option_name"),
		}},
		{Name: "limits", Label: "Limits", PrimaryKey: "limits_id", Fields: []Field{
			auto("limits_id"),
			fk("product_id", "products"),
			fk("cover_id", "cover"),
			text("limit_text"),
			decimal("limit_pc_number"),
			decimal("limit_ag_number"),
		}},
		{Name: "retention", PrimaryKey: "retention_id", Fields: []Field{
			auto("retention_id"),
			fk("products_id", "products"),
			fk("cover_id", "cover"),
			text("retention_text"),
			decimal("retention_pc_number"),
			decimal("retention_ag_number"),
		}},
		{Name: "order_option", PrimaryKey: "order_option_id", Fields: []Field{
			auto("order_option_id"),
			fk("orders_id", "orders"),
			fk("options_id", "options"),
			fk("cover_id", "cover"),
			boolean("order_option_include"),
			fk("retention_id", "retention"),
			fk("limits_id", "limits"),
			decimal("premium"),
			boolean("bound"),
		}},
		{Name: "document", PrimaryKey: "document_id", Fields: []Field{
			auto("document_id"),
			text("document_name"),
			fk("product_id", "products"),
			text("document_number"),
			boolean("default_document"),
			timeOfDay("document_added"),
			timeOfDay("document_expiration"),
			integer("document_prior_version"),
			text("document_code"),
		}},
		{Name: "broker", PrimaryKey: "broker_id", Fields: []Field{
			auto("broker_id"),
			text("broker_name"),
		}},
		{Name: "broker_location", PrimaryKey: "broker_location_id", Fields: []Field{
			auto("broker_location_id"),
			fk("broker_id", "broker"),
			text("broker_address_1"),
			text("broker_address_2"),
			text("broker_city"),
			integer("broker_state_id"),
			text("broker_zip"),
		}},
		{Name: "broker_contact", PrimaryKey: "broker_contact_id", Fields: []Field{
			auto("broker_contact_id"),
			fk("broker_location_id", "broker_location"),
			text("broker_first_name"),
			text("broker_last_name"),
			text("broker_email"),
			text("broker_name_combined"),
		}},
		{Name: "drive", PrimaryKey: "drive_id", Fields: []Field{
			auto("drive_id"),
			text("drive_name"),
			fk("venture_id", "venture"),
		}},
		{Name: "employee_function", PrimaryKey: "employee_function_id", Fields: []Field{
			auto("employee_function_id"),
			text("employee_function"),
		}},
		{Name: "employee_function_detail", PrimaryKey: "employee_function_detail_id", Fields: []Field{
			auto("employee_function_detail_id"),
			fk("employee_id", "employee_contact"),
			fk("employee_function_id", "employee_function"),
			fk("product_id", "products"),
			text("cloud_name"),
			text("iam"),
		}},
		{Name: "paper", PrimaryKey: "paper_id", Fields: []Field{
			auto("paper_id"),
			text("paper_name"),
			text("am_best_rating"),
			text("am_best_financial_size"),
		}},
		{Name: "paper_detail", PrimaryKey: "paper_detail_id", Fields: []Field{
			auto("paper_detail_id"),
			fk("products_id", "products"),
			fk("paper_id", "paper"),
			decimal("paper_percentage"),
		}},
		{Name: "parameter_map", PrimaryKey: "parameter_map_id", Fields: []Field{
			auto("parameter_map_id"),
			fk("products_id", "products"),
			fk("parameter_id", "parameter"),
			boolean("console_element"),
			boolean("quote_item"),
			boolean("binder_item"),
			boolean("policy_item"),
		}},
		{Name: "attachment_type", PrimaryKey: "attachment_type_id", Fields: []Field{
			auto("attachment_type_id"),
			text("attachment_type_name"),
		}},
		{Name: "attachment", PrimaryKey: "attachment_id", Fields: []Field{
			auto("attachment_id"),
			text("attachment_name"),
			text("output_description"),
			fk("attachment_type_id", "attachment_type"),
		}},
		{Name: "attachment_detail", PrimaryKey: "attachment_detail_id", Fields: []Field{
			auto("attachment_detail_id"),
			fk("attachment_id", "attachment"),
			fk("product_id", "products"),
			fk("task_id", "task"),
			fk("attachment_type_id", "attachment_type"),
		}},
		{Name: "sublimit", PrimaryKey: "sublimit_id", Fields: []Field{
			auto("sublimit_id"),
			fk("orders_id", "orders"),
			fk("products_id", "products"),
			text("sublimit_name"),
			decimal("sublimit_amount"),
		}},
		{Name: "workflow_standard", PrimaryKey: "workflow_standard_id", Fields: []Field{
			auto("workflow_standard_id"),
			text("workflow_type"),
			fk("stage_id", "stage"),
			integer("next_stage_id"),
			fk("task_id", "task"),
			text("workflow_sequence"),
			integer("man_auto"),
		}},
		{Name: "generation_model", PrimaryKey: "generation_model_id", Fields: []Field{
			auto("generation_model_id"),
			text("generation_model_name"),
			text("python_exe_file"),
			text("python_file_path"),
			text("jupyter_file_path"),
			text("model_filename"),
			text("model_code"),
			text("py_file"),
		}},
		{Name: "data_seed", PrimaryKey: "data_seed_id", Fields: []Field{
			auto("data_seed_id"),
			text("data_seed_filename"),
			boolean("show_seed"),
			fk("product_id", "products"),
		}},
		{Name: "generation_job", PrimaryKey: "generation_job_id", Fields: []Field{
			auto("generation_job_id"),
			fk("generator_model_id", "generation_model"),
			fk("product_id", "products"),
			fk("data_seed_id", "data_seed"),
		}},
		{Name: "generation_log", PrimaryKey: "output_id", Fields: []Field{
			auto("output_id"),
			text("model_code"),
			text("output_file_name"),
			fkRequired("product_id", "products"),
			text("output_id_2"),
		}},
		{Name: "training_model", PrimaryKey: "training_model_id", Fields: []Field{
			auto("training_model_id"),
			text("model_name"),
			text("python_exe_file"),
			text("python_file_path"),
			text("jupyter_file_path"),
			text("model_filename"),
			text("model_code"),
			text("py_file"),
			text("pickle_dump"),
			text("inference_py_file"),
		}},
		{Name: "training_job", PrimaryKey: "training_job_id", Fields: []Field{
			auto("training_job_id"),
			fk("training_model_id", "training_model"),
			fk("products_id", "products"),
			text("data_set_id"),
			text("pickle_file_name"),
		}},
		{Name: "input_output", PrimaryKey: "input_output_id", Fields: []Field{
			auto("input_output_id"),
			text("input_output_name"),
		}},
		{Name: "model_parameter", PrimaryKey: "model_parameter_id", Fields: []Field{
			auto("model_parameter_id"),
			fk("training_job_id", "training_job"),
			fk("parameter_id", "parameter"),
			fk("input_output_id", "input_output"),
		}},
	}
}

// NewBuiltinRegistry returns a registry populated with every built-in table.
func NewBuiltinRegistry() *Registry {
	r := NewRegistry()
	for _, t := range BuiltinTables() {
		r.Register(t)
	}
	return r
}
