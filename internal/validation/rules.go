package validation

// ListProperties validates the query string of the listing endpoint.
var ListProperties = RuleSet{
	{Field: "page", Kind: Int, Tag: "min=1", Optional: true, Message: "The filter page must be a positive integer"},
	{Field: "pageSize", Kind: Int, Tag: "min=1,max=100", Optional: true, Message: "The filter pageSize must be a positive integer less than or equal 100"},
	{Field: "bedrooms", Kind: Int, Tag: "min=0", Optional: true, Message: "The bedrooms filter must be an integer greater than or equal zero"},
	{Field: "bathrooms", Kind: Int, Tag: "min=0", Optional: true, Message: "The bathrooms filter must be an integer greater than or equal zero"},
	{Field: "type", Kind: String, Tag: "required,alpha", Optional: true, Message: "The type filter must be an alphabetic string value"},
	{Field: "minPrice", Kind: Float, Tag: "min=0", Optional: true, Message: "The minPrice filter must be a numeric value greater than or equal zero"},
	{Field: "maxPrice", Kind: Float, Tag: "min=0", Optional: true, Message: "The maxPrice filter must be a numeric value greater than or equal zero"},
}

// PropertyID validates the :id path parameter.
var PropertyID = RuleSet{
	{Field: "id", Kind: Int, Tag: "min=1", Message: "The property ID must be a positive integer"},
}

// CreateProperty validates the body of a create request.
var CreateProperty = RuleSet{
	{Field: "address", Kind: String, Tag: "required", Message: "The address is required and must be a valid string"},
	{Field: "price", Kind: Float, Tag: "min=1", Message: "The price is required and must be a positive numeric value"},
	{Field: "bedrooms", Kind: Int, Tag: "min=0", Message: "The bedrooms is required and must be an integer greater than or equal zero"},
	{Field: "bathrooms", Kind: Int, Tag: "min=0", Message: "The bathrooms is required and must be an integer greater than or equal zero"},
	{Field: "type", Kind: String, Tag: "required,alpha", Optional: true, Message: "The type must be an alphabetic string value"},
}

// UpdateProperty validates the body of a partial update.
var UpdateProperty = CreateProperty.Optional()
