package view

import "fmt"

const closeEditorAction = "@post('/users/edit/close')"

// CardID is the element id of the grid cell showing user id.
func CardID(id int) string {
	return fmt.Sprintf("user-%d", id)
}

func pageAction(page int) string {
	return fmt.Sprintf("@get('/users/list?page=%d')", page)
}

func editAction(id int) string {
	return fmt.Sprintf("@get('/users/%d/edit')", id)
}

func deleteAction(id int) string {
	return fmt.Sprintf("@delete('/users/%d')", id)
}

func updateAction(id int) string {
	return fmt.Sprintf("@put('/users/%d', {contentType: 'form'})", id)
}

// pageNumbers lists 1..total.
func pageNumbers(total int) []int {
	pages := make([]int, 0, max(total, 0))
	for p := 1; p <= total; p++ {
		pages = append(pages, p)
	}
	return pages
}
