package rakuten

// Book is the metadata returned for one listed title.
type Book struct {
	ISBN      string `json:"isbn"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Publisher string `json:"publisher"`
	SalesDate string `json:"sales_date"`
	Price     int    `json:"price"`
	Caption   string `json:"caption"`
	CoverURL  string `json:"cover_url"`
	ItemURL   string `json:"item_url"`
}

// searchResponse is the wire shape of a BooksBook/Search response.
type searchResponse struct {
	Count int `json:"count"`
	Items []struct {
		Item itemPayload `json:"Item"`
	} `json:"Items"`
}

// itemPayload is one listing as the API returns it.
type itemPayload struct {
	Title          string `json:"title"`
	Author         string `json:"author"`
	PublisherName  string `json:"publisherName"`
	SalesDate      string `json:"salesDate"`
	ItemPrice      int    `json:"itemPrice"`
	ItemCaption    string `json:"itemCaption"`
	ItemURL        string `json:"itemUrl"`
	LargeImageURL  string `json:"largeImageUrl"`
	MediumImageURL string `json:"mediumImageUrl"`
	ISBN           string `json:"isbn"`
}
