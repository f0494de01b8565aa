package text

import (
	"sort"
	"strings"

	"github.com/aretw0/taskgate/pkg/dialog"
	"github.com/aretw0/taskgate/pkg/domain"
)

// scrollState tracks how far each scroll-gated region of a frame was revealed.
type scrollState struct {
	page    int
	content map[int][]string
	offset  map[int]int
	enabled map[int]bool
}

func newScrollState(f *dialog.Frame, page int) *scrollState {
	st := &scrollState{
		page:    page,
		content: map[int][]string{},
		offset:  map[int]int{},
		enabled: map[int]bool{},
	}
	for _, c := range f.Controls() {
		if c.Spec.Kind == domain.WidgetScrollGatedButton {
			st.content[c.Index] = strings.Split(c.Spec.Content, "\n")
			st.offset[c.Index] = -1
		}
	}
	return st
}

func (st *scrollState) indexes() []int {
	out := make([]int, 0, len(st.content))
	for idx := range st.content {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

// next advances region idx by one page (the first call shows the first page)
// and returns the revealed lines and the resulting position.
func (st *scrollState) next(idx int) (lines []string, offset, visible, total int) {
	all := st.content[idx]
	total = len(all)
	offset = st.offset[idx] + st.page
	if st.offset[idx] < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	end := offset + st.page
	if end > total {
		end = total
	}
	st.offset[idx] = offset
	return all[offset:end], offset, end - offset, total
}
