package recipe

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func writeRecipeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recipes.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func loadedRepo(t *testing.T, content string) *Repository {
	t.Helper()
	repo, err := NewRepository(writeRecipeFile(t, content))
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	if err := repo.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return repo
}

const twoRecipes = `[Recept]
Pancakes
[Ingredienser]
200;g;flour
2;;eggs
[Instruktioner]
Mix everything.
Fry in butter.

[Recept]
Tea
[Ingredienser]
1;cup;water
[Instruktioner]
Boil water.
`

func TestNewRepositoryEmptyPath(t *testing.T) {
	if _, err := NewRepository(""); !errors.Is(err, ErrIO) {
		t.Fatalf("expected ErrIO for empty path, got %v", err)
	}
}

func TestLoadPopulatesSorted(t *testing.T) {
	repo := loadedRepo(t, twoRecipes)

	if repo.Count() != 2 {
		t.Fatalf("expected 2 recipes, got %d", repo.Count())
	}
	all := repo.GetAll()
	if all[0].Name != "Pancakes" || all[1].Name != "Tea" {
		t.Errorf("unexpected order: %q, %q", all[0].Name, all[1].Name)
	}
	if repo.Modified() {
		t.Error("Load must clear the modified flag")
	}
}

func TestLoadMissingFile(t *testing.T) {
	repo, err := NewRepository(filepath.Join(t.TempDir(), "absent.txt"))
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	err = repo.Load()
	if !errors.Is(err, ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected wrapped fs.ErrNotExist, got %v", err)
	}
}

func TestLoadFailureKeepsCollection(t *testing.T) {
	repo := loadedRepo(t, twoRecipes)

	// Corrupt the file on disk and reload; the in-memory collection must
	// survive untouched.
	if err := os.WriteFile(repo.Path(), []byte("[Recept]\nSoup\n[Ingredienser]\n200;g\n"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if err := repo.Load(); !errors.Is(err, ErrFormat) {
		t.Fatalf("expected ErrFormat, got %v", err)
	}
	all := repo.GetAll()
	if len(all) != 2 || all[0].Name != "Pancakes" || all[1].Name != "Tea" {
		t.Errorf("failed Load leaked into the collection: %+v", all)
	}
}

func TestGetAtBounds(t *testing.T) {
	repo := loadedRepo(t, twoRecipes)

	if _, err := repo.GetAt(1); err != nil {
		t.Errorf("GetAt(1): %v", err)
	}
	for _, i := range []int{-1, 2} {
		if _, err := repo.GetAt(i); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("GetAt(%d): expected ErrOutOfRange, got %v", i, err)
		}
	}
}

func TestCopyIsolation(t *testing.T) {
	repo := loadedRepo(t, twoRecipes)

	all := repo.GetAll()
	all[0].Name = "Waffles"
	all[0].Ingredients[0].Name = "sand"
	all[0].Instructions[0] = "Do nothing."

	one, err := repo.GetAt(0)
	if err != nil {
		t.Fatalf("GetAt: %v", err)
	}
	one.Ingredients[1].Amount = "999"

	fresh := repo.GetAll()
	if fresh[0].Name != "Pancakes" {
		t.Errorf("name mutated through a copy: %q", fresh[0].Name)
	}
	if fresh[0].Ingredients[0].Name != "flour" || fresh[0].Ingredients[1].Amount != "2" {
		t.Errorf("ingredients mutated through a copy: %+v", fresh[0].Ingredients)
	}
	if fresh[0].Instructions[0] != "Mix everything." {
		t.Errorf("instructions mutated through a copy: %q", fresh[0].Instructions[0])
	}
}

func TestDeleteByDetachedCopy(t *testing.T) {
	repo := loadedRepo(t, twoRecipes)

	copyOfFirst, err := repo.GetAt(0)
	if err != nil {
		t.Fatalf("GetAt: %v", err)
	}
	if err := repo.Delete(copyOfFirst); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	all := repo.GetAll()
	if len(all) != 1 || all[0].Name != "Tea" {
		t.Errorf("expected only Tea left, got %+v", all)
	}
	if !repo.Modified() {
		t.Error("Delete must set the modified flag")
	}
}

func TestDeleteNotFound(t *testing.T) {
	repo := loadedRepo(t, twoRecipes)
	if err := repo.Delete(Recipe{Name: "Gruel"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if repo.Modified() {
		t.Error("failed delete must not set the modified flag")
	}
}

func TestDeleteAt(t *testing.T) {
	repo := loadedRepo(t, twoRecipes)

	if err := repo.DeleteAt(5); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	if err := repo.DeleteAt(1); err != nil {
		t.Fatalf("DeleteAt: %v", err)
	}
	if repo.Count() != 1 || repo.GetAll()[0].Name != "Pancakes" {
		t.Errorf("expected only Pancakes left, got %+v", repo.GetAll())
	}
}

func TestFind(t *testing.T) {
	repo := loadedRepo(t, twoRecipes)

	rec, err := repo.Find("Tea")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if rec.Name != "Tea" {
		t.Errorf("expected Tea, got %q", rec.Name)
	}
	if _, err := repo.Find("tea"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Find must be case-sensitive, got %v", err)
	}
}

func TestAddKeepsSortedOrder(t *testing.T) {
	repo := loadedRepo(t, twoRecipes)

	err := repo.Add(Recipe{
		Name:         "Soup",
		Ingredients:  []Ingredient{{Amount: "1", Measure: "l", Name: "stock"}},
		Instructions: []string{"Heat."},
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	all := repo.GetAll()
	if len(all) != 3 || all[0].Name != "Pancakes" || all[1].Name != "Soup" || all[2].Name != "Tea" {
		t.Errorf("unexpected order after Add: %+v", all)
	}
	if !repo.Modified() {
		t.Error("Add must set the modified flag")
	}
}

func TestAddRejectsDuplicateAndEmpty(t *testing.T) {
	repo := loadedRepo(t, twoRecipes)

	if err := repo.Add(Recipe{Name: "Tea"}); !errors.Is(err, ErrExists) {
		t.Errorf("expected ErrExists, got %v", err)
	}
	if err := repo.Add(Recipe{}); !errors.Is(err, ErrFormat) {
		t.Errorf("expected ErrFormat for empty name, got %v", err)
	}
}

func TestAddStoresCopy(t *testing.T) {
	repo := loadedRepo(t, twoRecipes)

	rec := Recipe{Name: "Soup", Instructions: []string{"Heat."}}
	if err := repo.Add(rec); err != nil {
		t.Fatalf("Add: %v", err)
	}
	rec.Instructions[0] = "Freeze."

	stored, err := repo.Find("Soup")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if stored.Instructions[0] != "Heat." {
		t.Errorf("Add aliased caller storage: %q", stored.Instructions[0])
	}
}

func TestUpdate(t *testing.T) {
	repo := loadedRepo(t, twoRecipes)

	rec, err := repo.GetAt(0)
	if err != nil {
		t.Fatalf("GetAt: %v", err)
	}
	rec.Name = "Waffles"
	rec.Instructions = append(rec.Instructions, "Serve warm.")

	if err := repo.Update(0, rec); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := repo.GetAt(0)
	if err != nil {
		t.Fatalf("GetAt: %v", err)
	}
	if got.Name != "Waffles" || len(got.Instructions) != 3 {
		t.Errorf("update not applied: %+v", got)
	}
	if !repo.Modified() {
		t.Error("Update must set the modified flag")
	}

	if err := repo.Update(7, rec); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
	rec.Name = "Tea" // collides with index 1
	if err := repo.Update(0, rec); !errors.Is(err, ErrExists) {
		t.Errorf("expected ErrExists, got %v", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	repo := loadedRepo(t, twoRecipes)

	if err := repo.DeleteAt(1); err != nil {
		t.Fatalf("DeleteAt: %v", err)
	}
	if err := repo.Add(Recipe{
		Name:         "Gröt",
		Ingredients:  []Ingredient{{Amount: "1", Measure: "dl", Name: "havregryn"}},
		Instructions: []string{"Koka gryn och vatten."},
	}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := repo.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if repo.Modified() {
		t.Error("Save must clear the modified flag")
	}
	if _, err := os.Stat(repo.Path() + ".tmp"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("temp file left behind after Save: %v", err)
	}

	reread, err := NewRepository(repo.Path())
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	if err := reread.Load(); err != nil {
		t.Fatalf("Load after Save: %v", err)
	}
	all := reread.GetAll()
	if len(all) != 2 || all[0].Name != "Gröt" || all[1].Name != "Pancakes" {
		t.Fatalf("round-trip mismatch: %+v", all)
	}
	if all[0].Ingredients[0] != (Ingredient{Amount: "1", Measure: "dl", Name: "havregryn"}) {
		t.Errorf("ingredient did not survive round-trip: %+v", all[0].Ingredients[0])
	}
	if all[1].Instructions[1] != "Fry in butter." {
		t.Errorf("instruction did not survive round-trip: %q", all[1].Instructions[1])
	}
}

func TestSaveFailureLeavesFileAlone(t *testing.T) {
	// Point the repository into a directory that does not exist: the temp
	// file cannot be created, so Save must fail without touching anything.
	repo, err := NewRepository(filepath.Join(t.TempDir(), "missing", "recipes.txt"))
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	if err := repo.Add(Recipe{Name: "Tea"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := repo.Save(); !errors.Is(err, ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
	if !repo.Modified() {
		t.Error("failed Save must keep the modified flag set")
	}
}

func TestChangeNotificationFanOut(t *testing.T) {
	repo := loadedRepo(t, twoRecipes)

	var first, second int
	var firstSub *Subscription
	firstSub = repo.OnChanged(func() {
		first++
		// Unsubscribing mid-dispatch must not starve the other handler.
		firstSub.Cancel()
	})
	repo.OnChanged(func() { second++ })

	if err := repo.DeleteAt(0); err != nil {
		t.Fatalf("DeleteAt: %v", err)
	}
	if first != 1 || second != 1 {
		t.Fatalf("expected both handlers once, got first=%d second=%d", first, second)
	}

	// The cancelled handler stays silent from now on.
	if err := repo.DeleteAt(0); err != nil {
		t.Fatalf("DeleteAt: %v", err)
	}
	if first != 1 || second != 2 {
		t.Errorf("after cancel: expected first=1 second=2, got first=%d second=%d", first, second)
	}
}

func TestLoadNotifies(t *testing.T) {
	repo, err := NewRepository(writeRecipeFile(t, teaFile))
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	calls := 0
	repo.OnChanged(func() { calls++ })

	if err := repo.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 notification after Load, got %d", calls)
	}
}

func TestHandlerMayCallBackIntoRepository(t *testing.T) {
	repo := loadedRepo(t, twoRecipes)

	seen := -1
	repo.OnChanged(func() { seen = repo.Count() })

	if err := repo.DeleteAt(0); err != nil {
		t.Fatalf("DeleteAt: %v", err)
	}
	if seen != 1 {
		t.Errorf("handler saw stale count %d", seen)
	}
}
