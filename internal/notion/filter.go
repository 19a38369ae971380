package notion

// Filter is a JSON filter tree for the query endpoint: either a leaf
// predicate over one property or an and/or combination.
type Filter map[string]interface{}

func And(filters ...Filter) Filter {
	return Filter{"and": filters}
}

func Or(filters ...Filter) Filter {
	return Filter{"or": filters}
}

func leaf(property, kind string, cond map[string]interface{}) Filter {
	return Filter{"property": property, kind: cond}
}

func TitleEquals(property, value string) Filter {
	return leaf(property, "title", map[string]interface{}{"equals": value})
}

func TitleContains(property, value string) Filter {
	return leaf(property, "title", map[string]interface{}{"contains": value})
}

func RichTextContains(property, value string) Filter {
	return leaf(property, "rich_text", map[string]interface{}{"contains": value})
}

func SelectEquals(property, value string) Filter {
	return leaf(property, "select", map[string]interface{}{"equals": value})
}

func SelectNotEquals(property, value string) Filter {
	return leaf(property, "select", map[string]interface{}{"does_not_equal": value})
}

func MultiSelectContains(property, value string) Filter {
	return leaf(property, "multi_select", map[string]interface{}{"contains": value})
}

func RelationContains(property, pageID string) Filter {
	return leaf(property, "relation", map[string]interface{}{"contains": pageID})
}

// DateOnOrBefore filters a date property; value is an ISO 8601 date or
// datetime string.
func DateOnOrBefore(property, value string) Filter {
	return leaf(property, "date", map[string]interface{}{"on_or_before": value})
}

func DateOnOrAfter(property, value string) Filter {
	return leaf(property, "date", map[string]interface{}{"on_or_after": value})
}
