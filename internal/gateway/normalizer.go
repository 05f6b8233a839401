package gateway

import "github.com/kravuar/arangate/model"

// Normalize flattens one handler result into output items tagged with the
// originating input index. A list yields one item per element in the
// handler's emission order; a scalar yields exactly one item; an empty list
// yields none. Output is never sorted by content.
func Normalize(res model.ExecutionResult, originIndex int) []model.OutputItem {
	switch res.Kind {
	case model.ResultList:
		items := make([]model.OutputItem, 0, len(res.Records))
		for _, rec := range res.Records {
			items = append(items, model.OutputItem{Payload: rec, OriginIndex: originIndex})
		}
		return items
	default:
		return []model.OutputItem{{Payload: res.Record, OriginIndex: originIndex}}
	}
}
