package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	i := NoopIOHooks{}
	i.OnLoadStart(ctx, "plan.json")
	i.OnLoadComplete(ctx, "plan.json", 10, 9, 1, time.Millisecond, nil)
	i.OnSaveStart(ctx, "out.json")
	i.OnSaveComplete(ctx, "out.json", 10, 9, time.Millisecond, errors.New("disk full"))

	e := NoopEditHooks{}
	e.OnMutation(ctx, "add_node", "room_0", true)
	e.OnHitTest(ctx, "node", false, time.Microsecond)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "/api/v1/graph")
	h.OnResponse(ctx, "GET", "/api/v1/graph", 200, time.Millisecond)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := IO().(NoopIOHooks); !ok {
		t.Error("IO() should return NoopIOHooks by default")
	}
	if _, ok := Edit().(NoopEditHooks); !ok {
		t.Error("Edit() should return NoopEditHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customIO := &testIOHooks{}
	SetIOHooks(customIO)
	if IO() != customIO {
		t.Error("SetIOHooks should set custom hooks")
	}

	customEdit := &testEditHooks{}
	SetEditHooks(customEdit)
	if Edit() != customEdit {
		t.Error("SetEditHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := IO().(NoopIOHooks); !ok {
		t.Error("Reset() should restore NoopIOHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testEditHooks{}
	SetEditHooks(custom)
	SetEditHooks(nil)

	if Edit() != custom {
		t.Error("SetEditHooks(nil) should be ignored")
	}

	Reset()
}

type testIOHooks struct{ NoopIOHooks }
type testEditHooks struct{ NoopEditHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
