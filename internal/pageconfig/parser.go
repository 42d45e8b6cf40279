package pageconfig

import "strings"

// sectionIcons maps tables to their Material icon names. Tables without
// an entry fall back to a generic icon.
var sectionIcons = map[string]string{
	"venture":                  "business",
	"drive":                    "storage",
	"employee_location":        "location_on",
	"employee_contact":         "people",
	"products":                 "inventory",
	"coverage":                 "shield",
	"cover":                    "security",
	"company":                  "business",
	"company_contact":          "contact_phone",
	"company_location":         "location_city",
	"employee_function_detail": "work",
	"paper":                    "description",
	"paper_detail":             "list_alt",
	"applications":             "apps",
	"application_question":     "help",
	"application_response":     "chat",
	"parameter_type":           "category",
	"parameter":                "settings",
	"parameter_map":            "map",
	"document":                 "folder",
	"task":                     "task",
	"stage":                    "flag",
	"flow_origin":              "call_split",
	"workflow":                 "account_tree",
	"workflow_detail":          "timeline",
	"attachment":               "attach_file",
	"attachment_detail":        "attachment",
	"limits":                   "speed",
	"retention":                "schedule",
	"sublimit":                 "subdirectory_arrow_right",
	"orders":                   "shopping_cart",
	"order_option":             "checklist",
	"broker":                   "person",
	"broker_location":          "location_city",
	"broker_contact":           "contact_phone",
	"generation_job":           "play_arrow",
}

// IconFor returns the icon for a table.
func IconFor(table string) string {
	if icon, ok := sectionIcons[table]; ok {
		return icon
	}
	return "table_chart"
}

// ParseRows accumulates tabular configuration rows into pages. Each row
// is [page, section, table, column, display_name, add, edit]; rows
// sharing a page and section name contribute columns to the same
// section. Rows with fewer than 7 cells are skipped. The first row of a
// section decides its table and button flags.
func ParseRows(rows [][]string) []*Page {
	var pages []*Page
	byName := make(map[string]*Page)

	for _, row := range rows {
		if len(row) < 7 {
			continue
		}
		pageName, sectionName, table := row[0], row[1], row[2]
		column, displayName := row[3], row[4]
		addBtn, editBtn := yes(row[5]), yes(row[6])

		page, ok := byName[pageName]
		if !ok {
			page = &Page{Name: pageName}
			byName[pageName] = page
			pages = append(pages, page)
		}

		section := page.Section(sectionName)
		if section == nil {
			page.Sections = append(page.Sections, Section{
				Name:       sectionName,
				Table:      table,
				Icon:       IconFor(table),
				AddButton:  addBtn,
				EditButton: editBtn,
			})
			section = &page.Sections[len(page.Sections)-1]
		}

		section.Columns = append(section.Columns, Column{
			DBColumn:    column,
			DisplayName: displayName,
			Searchable:  true,
		})
	}
	return pages
}

func yes(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "yes")
}
