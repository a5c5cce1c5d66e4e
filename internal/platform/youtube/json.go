package youtube

import "github.com/tidwall/gjson"

// Every remote payload is read through gjson: a missing path at any depth
// yields an empty Result instead of an error.

const (
	pathContinuationToken = "continuationItemRenderer.continuationEndpoint.continuationCommand.token"
	pathEndpoints         = "onResponseReceivedEndpoints"
	pathMutations         = "frameworkUpdates.entityBatchUpdate.mutations"
	pathCommentEntity     = "payload.commentEntityPayload"
)

// truthy mirrors how the web client tests optional fields: missing, null,
// false, "" and 0 all count as absent.
func truthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.String:
		return r.Str != ""
	case gjson.Number:
		return r.Num != 0
	case gjson.True, gjson.JSON:
		return true
	default:
		return false
	}
}

// text returns a scalar field as a display string, or "" when it is absent or
// not a scalar.
func text(r gjson.Result) string {
	if !truthy(r) {
		return ""
	}
	switch r.Type {
	case gjson.String:
		return r.Str
	case gjson.Number:
		return r.Raw
	case gjson.True:
		return "true"
	default:
		return ""
	}
}

func continuationToken(item gjson.Result) string {
	return text(item.Get(pathContinuationToken))
}

// continuationActions yields the continuationItems list of every received
// endpoint. A reload command takes precedence over an append action on the
// same endpoint; both carry the same item shape.
func continuationActions(data gjson.Result) []gjson.Result {
	endpoints := data.Get(pathEndpoints)
	if !endpoints.IsArray() {
		return nil
	}
	var out []gjson.Result
	for _, ep := range endpoints.Array() {
		action := ep.Get("reloadContinuationItemsCommand")
		if !truthy(action) {
			action = ep.Get("appendContinuationItemsAction")
		}
		items := action.Get("continuationItems")
		if !items.IsArray() {
			continue
		}
		out = append(out, items)
	}
	return out
}

// commentEntities returns every comment entity payload in the mutation batch,
// in response order.
func commentEntities(data gjson.Result) []gjson.Result {
	mutations := data.Get(pathMutations)
	if !mutations.IsArray() {
		return nil
	}
	var out []gjson.Result
	for _, m := range mutations.Array() {
		p := m.Get(pathCommentEntity)
		if !truthy(p) || !p.IsObject() {
			continue
		}
		out = append(out, p)
	}
	return out
}
