package model_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/calvinalkan/jira-tui/internal/model"
)

func Test_AddEpic_Assigns_Next_ID_And_Resets_Status(t *testing.T) {
	t.Parallel()

	state := model.NewState()
	epic := model.Epic{Name: "A", Description: "d", Status: model.StatusClosed, Stories: []uint32{7}}

	id, err := state.AddEpic(epic)
	if err != nil {
		t.Fatalf("add epic: %v", err)
	}

	if got, want := id, uint32(1); got != want {
		t.Fatalf("id=%d, want=%d", got, want)
	}

	want := &model.Epic{Name: "A", Description: "d", Status: model.StatusOpen, Stories: []uint32{}}
	if diff := cmp.Diff(want, state.Epics[1]); diff != "" {
		t.Fatalf("epic mismatch (-want +got):\n%s", diff)
	}
}

func Test_AddStory_Appends_To_Epic_And_Shares_Counter(t *testing.T) {
	t.Parallel()

	state := model.NewState()
	epicID, _ := state.AddEpic(model.NewEpic("A", "d"))

	first, err := state.AddStory(model.NewStory("B", "d"), epicID)
	if err != nil {
		t.Fatalf("add story: %v", err)
	}

	second, err := state.AddStory(model.NewStory("C", "d"), epicID)
	if err != nil {
		t.Fatalf("add story: %v", err)
	}

	if first != 2 || second != 3 {
		t.Fatalf("ids=%d,%d, want 2,3", first, second)
	}

	if diff := cmp.Diff([]uint32{2, 3}, state.Epics[epicID].Stories); diff != "" {
		t.Fatalf("story list mismatch (-want +got):\n%s", diff)
	}

	if got, want := state.LastItemID, uint32(3); got != want {
		t.Fatalf("LastItemID=%d, want=%d", got, want)
	}
}

func Test_AddStory_Leaves_Counter_When_Epic_Missing(t *testing.T) {
	t.Parallel()

	state := model.NewState()

	_, err := state.AddStory(model.NewStory("x", "y"), 99)
	if !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("err=%v, want ErrNotFound", err)
	}

	if diff := cmp.Diff(model.NewState(), state); diff != "" {
		t.Fatalf("state changed (-want +got):\n%s", diff)
	}
}

func Test_AddStory_Rejects_Unsorted_Story_List(t *testing.T) {
	t.Parallel()

	state := model.NewState()
	state.LastItemID = 5
	state.Epics[1] = &model.Epic{Name: "A", Stories: []uint32{4, 2}}

	_, err := state.AddStory(model.NewStory("x", "y"), 1)
	if !errors.Is(err, model.ErrInconsistent) {
		t.Fatalf("err=%v, want ErrInconsistent", err)
	}

	if got, want := state.LastItemID, uint32(5); got != want {
		t.Fatalf("LastItemID=%d, want=%d", got, want)
	}
}

func Test_AddStory_Rejects_ID_Not_Larger_Than_Tail(t *testing.T) {
	t.Parallel()

	state := model.NewState()
	state.LastItemID = 2
	state.Epics[1] = &model.Epic{Name: "A", Stories: []uint32{9}}

	_, err := state.AddStory(model.NewStory("x", "y"), 1)
	if !errors.Is(err, model.ErrInconsistent) {
		t.Fatalf("err=%v, want ErrInconsistent", err)
	}
}

func Test_RemoveEpic_Cascades_And_Tolerates_Missing_Stories(t *testing.T) {
	t.Parallel()

	state := model.NewState()
	epicID, _ := state.AddEpic(model.NewEpic("A", "d"))
	otherID, _ := state.AddEpic(model.NewEpic("B", "d"))

	storyID, _ := state.AddStory(model.NewStory("s", "d"), epicID)
	otherStory, _ := state.AddStory(model.NewStory("t", "d"), otherID)

	// A dangling id must not stop the cascade.
	state.Epics[epicID].Stories = append(state.Epics[epicID].Stories, 100)

	err := state.RemoveEpic(epicID)
	if err != nil {
		t.Fatalf("remove epic: %v", err)
	}

	if _, ok := state.Epics[epicID]; ok {
		t.Fatal("epic still present")
	}

	if _, ok := state.Stories[storyID]; ok {
		t.Fatal("owned story still present")
	}

	if _, ok := state.Stories[otherStory]; !ok {
		t.Fatal("story of another epic was removed")
	}
}

func Test_RemoveEpic_Returns_NotFound(t *testing.T) {
	t.Parallel()

	err := model.NewState().RemoveEpic(1)
	if !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("err=%v, want ErrNotFound", err)
	}
}

func Test_RemoveStory(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name        string
		epicID      uint32
		storyID     uint32
		wantErr     error
		wantStories []uint32
	}{
		{name: "removes listed story", epicID: 1, storyID: 3, wantStories: []uint32{2, 4}},
		{name: "missing epic", epicID: 9, storyID: 3, wantErr: model.ErrNotFound, wantStories: []uint32{2, 3, 4}},
		{name: "missing story", epicID: 1, storyID: 9, wantErr: model.ErrNotFound, wantStories: []uint32{2, 3, 4}},
		{name: "story of other epic", epicID: 1, storyID: 6, wantErr: model.ErrInconsistent, wantStories: []uint32{2, 3, 4}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			state := fixture()
			before := snapshot(t, state.Stories)

			err := state.RemoveStory(tt.epicID, tt.storyID)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err=%v, want=%v", err, tt.wantErr)
			}

			if diff := cmp.Diff(tt.wantStories, state.Epics[1].Stories); diff != "" {
				t.Fatalf("epic 1 stories (-want +got):\n%s", diff)
			}

			if tt.wantErr != nil {
				if diff := cmp.Diff(before, snapshot(t, state.Stories)); diff != "" {
					t.Fatalf("stories changed on failure (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func Test_RemoveStory_Restores_Entry_When_List_Unsorted(t *testing.T) {
	t.Parallel()

	state := fixture()
	state.Epics[1].Stories = []uint32{4, 3, 2}
	before := snapshot(t, state.Stories)

	err := state.RemoveStory(1, 3)
	if !errors.Is(err, model.ErrInconsistent) {
		t.Fatalf("err=%v, want ErrInconsistent", err)
	}

	if diff := cmp.Diff(before, snapshot(t, state.Stories)); diff != "" {
		t.Fatalf("stories changed (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]uint32{4, 3, 2}, state.Epics[1].Stories); diff != "" {
		t.Fatalf("story list changed (-want +got):\n%s", diff)
	}
}

func Test_Status_Updates_Are_Idempotent(t *testing.T) {
	t.Parallel()

	once := fixture()
	twice := fixture()

	for _, state := range []*model.State{once, twice} {
		if err := state.SetEpicStatus(1, model.StatusResolved); err != nil {
			t.Fatalf("set epic status: %v", err)
		}

		if err := state.SetStoryStatus(3, model.StatusInProgress); err != nil {
			t.Fatalf("set story status: %v", err)
		}
	}

	_ = twice.SetEpicStatus(1, model.StatusResolved)
	_ = twice.SetStoryStatus(3, model.StatusInProgress)

	if diff := cmp.Diff(once, twice); diff != "" {
		t.Fatalf("second update changed state (-once +twice):\n%s", diff)
	}
}

func Test_Status_Updates_Return_NotFound(t *testing.T) {
	t.Parallel()

	state := fixture()

	if err := state.SetEpicStatus(3, model.StatusClosed); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("SetEpicStatus on a story id: err=%v, want ErrNotFound", err)
	}

	if err := state.SetStoryStatus(1, model.StatusClosed); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("SetStoryStatus on an epic id: err=%v, want ErrNotFound", err)
	}
}

func Test_State_JSON_Uses_String_Keys_And_Status_Names(t *testing.T) {
	t.Parallel()

	state := model.NewState()
	epicID, _ := state.AddEpic(model.NewEpic("A", "d"))
	_, _ = state.AddStory(model.NewStory("B", "d"), epicID)
	_, _ = state.AddEpic(model.NewEpic("E", ""))
	_ = state.SetEpicStatus(epicID, model.StatusInProgress)

	data, err := json.Marshal(state)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	want := `{"last_item_id":3,` +
		`"epics":{"1":{"name":"A","description":"d","status":"InProgress","stories":[2]},` +
		`"3":{"name":"E","description":"","status":"Open","stories":[]}},` +
		`"stories":{"2":{"name":"B","description":"d","status":"Open"}}}`

	if got := string(data); got != want {
		t.Fatalf("json mismatch\ngot:  %s\nwant: %s", got, want)
	}

	var decoded model.State

	err = json.Unmarshal(data, &decoded)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if diff := cmp.Diff(state, &decoded); diff != "" {
		t.Fatalf("decoded state (-want +got):\n%s", diff)
	}
}

func Test_State_Unmarshal_Fills_Missing_Maps(t *testing.T) {
	t.Parallel()

	var state model.State

	err := json.Unmarshal([]byte(`{"last_item_id":4}`), &state)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if state.Epics == nil || state.Stories == nil {
		t.Fatal("maps should be initialized")
	}
}

func Test_Add_Refuses_When_ID_Space_Exhausted(t *testing.T) {
	t.Parallel()

	state := model.NewState()
	state.LastItemID = math.MaxUint32 - 1

	epicID, err := state.AddEpic(model.NewEpic("last", ""))
	if err != nil {
		t.Fatalf("add epic: %v", err)
	}

	if got, want := epicID, uint32(math.MaxUint32); got != want {
		t.Fatalf("id=%d, want=%d", got, want)
	}

	_, err = state.AddEpic(model.NewEpic("wrap", ""))
	if !errors.Is(err, model.ErrInconsistent) {
		t.Fatalf("add epic err=%v, want=%v", err, model.ErrInconsistent)
	}

	_, err = state.AddStory(model.NewStory("wrap", ""), epicID)
	if !errors.Is(err, model.ErrInconsistent) {
		t.Fatalf("add story err=%v, want=%v", err, model.ErrInconsistent)
	}

	if got, want := state.LastItemID, uint32(math.MaxUint32); got != want {
		t.Fatalf("LastItemID=%d, want=%d", got, want)
	}

	if got, want := len(state.Epics), 1; got != want {
		t.Fatalf("epics=%d, want=%d", got, want)
	}

	if got, want := len(state.Stories), 0; got != want {
		t.Fatalf("stories=%d, want=%d", got, want)
	}
}

func Test_State_Unmarshal_Rejects_Broken_Hierarchy(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name string
		doc  string
	}{
		{name: "null epic", doc: `{"last_item_id":1,"epics":{"1":null}}`},
		{name: "null story", doc: `{"last_item_id":2,"epics":{"1":{"stories":[2]}},"stories":{"2":null}}`},
		{name: "epic above counter", doc: `{"last_item_id":1,"epics":{"2":{"stories":[]}}}`},
		{name: "story above counter", doc: `{"last_item_id":1,"epics":{"1":{"stories":[]}},"stories":{"5":{}}}`},
		{name: "listed id above counter", doc: `{"last_item_id":1,"epics":{"1":{"stories":[9]}}}`},
		{name: "zero id", doc: `{"last_item_id":1,"epics":{"0":{"stories":[]}}}`},
		{name: "epic and story share id", doc: `{"last_item_id":1,"epics":{"1":{"stories":[]}},"stories":{"1":{}}}`},
		{name: "epic lists epic", doc: `{"last_item_id":2,"epics":{"1":{"stories":[2]},"2":{"stories":[]}}}`},
		{name: "story listed twice", doc: `{"last_item_id":2,"epics":{"1":{"stories":[2,2]}},"stories":{"2":{}}}`},
		{name: "story owned by two epics", doc: `{"last_item_id":3,"epics":{"1":{"stories":[3]},"2":{"stories":[3]}},"stories":{"3":{}}}`},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var state model.State

			err := json.Unmarshal([]byte(tt.doc), &state)
			if !errors.Is(err, model.ErrMalformed) {
				t.Fatalf("err=%v, want=%v", err, model.ErrMalformed)
			}
		})
	}
}

func Test_Validate_Rejects_Unknown_Status(t *testing.T) {
	t.Parallel()

	state := fixture()
	state.Stories[2].Status = model.Status(42)

	err := state.Validate()
	if !errors.Is(err, model.ErrMalformed) {
		t.Fatalf("err=%v, want=%v", err, model.ErrMalformed)
	}

	state.Stories[2].Status = model.StatusClosed

	if err := state.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func Test_State_Unmarshal_Accepts_Dangling_And_Unsorted_Lists(t *testing.T) {
	t.Parallel()

	doc := `{"last_item_id":4,"epics":{"1":{"stories":[4,2]}},"stories":{"2":{},"3":{}}}`

	var state model.State

	err := json.Unmarshal([]byte(doc), &state)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if diff := cmp.Diff([]uint32{4, 2}, state.Epics[1].Stories); diff != "" {
		t.Fatalf("story list (-want +got):\n%s", diff)
	}
}

// fixture holds epic 1 with stories 2,3,4 and epic 5 with story 6.
func fixture() *model.State {
	state := model.NewState()
	epicID, _ := state.AddEpic(model.NewEpic("one", ""))

	for range 3 {
		_, _ = state.AddStory(model.NewStory("s", ""), epicID)
	}

	other, _ := state.AddEpic(model.NewEpic("two", ""))
	_, _ = state.AddStory(model.NewStory("t", ""), other)

	return state
}

func snapshot(t *testing.T, stories map[uint32]*model.Story) string {
	t.Helper()

	data, err := json.Marshal(stories)
	if err != nil {
		t.Fatalf("marshal stories: %v", err)
	}

	return string(data)
}
