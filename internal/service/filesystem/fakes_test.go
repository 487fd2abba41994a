package filesystem

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"workbench/internal/domain"
	"workbench/internal/domain/models"
	"workbench/internal/domain/repositories"
	"workbench/internal/domain/services"
)

// fakeStore is an in-memory stand-in for the postgres repositories. One
// struct backs every repository interface so the tree-walk queries can see
// items and grants together, the way the SQL does.
type fakeStore struct {
	items   map[string]*models.Item
	uploads map[string]*models.UploadedFile
	perms   map[string]*models.Permission // itemID|userID
	users   map[string]*models.User
	seq     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		items:   make(map[string]*models.Item),
		uploads: make(map[string]*models.UploadedFile),
		perms:   make(map[string]*models.Permission),
		users:   make(map[string]*models.User),
	}
}

func (f *fakeStore) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

func permKey(itemID, userID string) string { return itemID + "|" + userID }

// --- ItemRepository ---

func (f *fakeStore) Create(ctx context.Context, item *models.Item) error {
	item.ID = f.nextID("item")
	item.CreatedAt = time.Now()
	item.UpdatedAt = item.CreatedAt
	cp := *item
	f.items[item.ID] = &cp
	return nil
}

func (f *fakeStore) GetByID(ctx context.Context, id string) (*models.Item, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *item
	return &cp, nil
}

func (f *fakeStore) Update(ctx context.Context, item *models.Item) error {
	if _, ok := f.items[item.ID]; !ok {
		return domain.ErrNotFound
	}
	item.UpdatedAt = time.Now()
	cp := *item
	f.items[item.ID] = &cp
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, id string) error {
	delete(f.items, id)
	return nil
}

func (f *fakeStore) DeleteByIDs(ctx context.Context, ids []string) error {
	for _, id := range ids {
		delete(f.items, id)
		for key, p := range f.perms {
			if p.ItemID == id {
				delete(f.perms, key)
			}
		}
	}
	return nil
}

func (f *fakeStore) ListChildren(ctx context.Context, ownerID string, parentID *string) ([]models.Item, error) {
	var out []models.Item
	for _, item := range f.items {
		if item.OwnerID != ownerID || !sameParent(item.ParentID, parentID) {
			continue
		}
		out = append(out, *item)
	}
	sortItems(out)
	return out, nil
}

func (f *fakeStore) SubtreeIDs(ctx context.Context, rootID string) ([]string, error) {
	ids := []string{rootID}
	frontier := []string{rootID}
	for len(frontier) > 0 {
		var next []string
		for _, item := range f.items {
			if item.ParentID == nil {
				continue
			}
			for _, pid := range frontier {
				if *item.ParentID == pid {
					ids = append(ids, item.ID)
					next = append(next, item.ID)
				}
			}
		}
		frontier = next
	}
	return ids, nil
}

func (f *fakeStore) ListSharedRoots(ctx context.Context, viewerID string) ([]models.Item, error) {
	seen := make(map[string]bool)
	var out []models.Item
	for _, p := range f.perms {
		if p.UserID != viewerID || !p.CanView {
			continue
		}
		root := f.rootOf(p.ItemID)
		if root == nil || root.OwnerID == viewerID || seen[root.ID] {
			continue
		}
		seen[root.ID] = true
		out = append(out, *root)
	}
	sortItems(out)
	return out, nil
}

func (f *fakeStore) ListVisiblePathChildren(ctx context.Context, viewerID, parentID string) ([]models.Item, error) {
	var out []models.Item
	for _, item := range f.items {
		if item.ParentID == nil || *item.ParentID != parentID {
			continue
		}
		ok, _ := f.SubtreeHasViewGrant(ctx, item.ID, viewerID)
		if ok {
			out = append(out, *item)
		}
	}
	sortItems(out)
	return out, nil
}

func (f *fakeStore) rootOf(itemID string) *models.Item {
	item, ok := f.items[itemID]
	if !ok {
		return nil
	}
	for item.ParentID != nil {
		parent, ok := f.items[*item.ParentID]
		if !ok {
			return nil
		}
		item = parent
	}
	return item
}

// --- UploadedFileRepository ---

func (f *fakeStore) CreateUpload(ctx context.Context, file *models.UploadedFile) error {
	file.ID = f.nextID("upload")
	file.CreatedAt = time.Now()
	cp := *file
	f.uploads[file.ID] = &cp
	return nil
}

func (f *fakeStore) GetUploadByID(ctx context.Context, id string) (*models.UploadedFile, error) {
	file, ok := f.uploads[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *file
	return &cp, nil
}

func (f *fakeStore) DeleteUpload(ctx context.Context, id string) error {
	delete(f.uploads, id)
	return nil
}

func (f *fakeStore) ListByParent(ctx context.Context, ownerID string, parentID *string) ([]models.UploadedFile, error) {
	var out []models.UploadedFile
	for _, file := range f.uploads {
		if file.OwnerID == ownerID && sameParent(file.ParentID, parentID) {
			out = append(out, *file)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OriginalName < out[j].OriginalName })
	return out, nil
}

func (f *fakeStore) ListUnderFolders(ctx context.Context, folderIDs []string) ([]models.UploadedFile, error) {
	var out []models.UploadedFile
	for _, file := range f.uploads {
		if file.ParentID == nil {
			continue
		}
		for _, id := range folderIDs {
			if *file.ParentID == id {
				out = append(out, *file)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeStore) DeleteUnderFolders(ctx context.Context, folderIDs []string) error {
	files, _ := f.ListUnderFolders(ctx, folderIDs)
	for _, file := range files {
		delete(f.uploads, file.ID)
	}
	return nil
}

// --- PermissionRepository ---

func (f *fakeStore) Upsert(ctx context.Context, perm *models.Permission) error {
	key := permKey(perm.ItemID, perm.UserID)
	if existing, ok := f.perms[key]; ok {
		existing.Capabilities = perm.Capabilities
		existing.UpdatedAt = time.Now()
		return nil
	}
	perm.ID = f.nextID("perm")
	perm.CreatedAt = time.Now()
	perm.UpdatedAt = perm.CreatedAt
	cp := *perm
	f.perms[key] = &cp
	return nil
}

func (f *fakeStore) Get(ctx context.Context, itemID, userID string) (*models.Permission, error) {
	perm, ok := f.perms[permKey(itemID, userID)]
	if !ok {
		return nil, nil
	}
	cp := *perm
	return &cp, nil
}

func (f *fakeStore) DeletePerm(ctx context.Context, itemID, userID string) error {
	delete(f.perms, permKey(itemID, userID))
	return nil
}

func (f *fakeStore) ListForItem(ctx context.Context, itemID string) ([]models.PermissionGrant, error) {
	var out []models.PermissionGrant
	for _, perm := range f.perms {
		if perm.ItemID != itemID {
			continue
		}
		grant := models.PermissionGrant{UserID: perm.UserID, Capabilities: perm.Capabilities}
		if user, ok := f.users[perm.UserID]; ok {
			grant.FirstName = user.FirstName
			grant.LastName = user.LastName
			grant.Email = user.Email
		}
		out = append(out, grant)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (f *fakeStore) SubtreeHasViewGrant(ctx context.Context, itemID, userID string) (bool, error) {
	ids, _ := f.SubtreeIDs(ctx, itemID)
	for _, id := range ids {
		if perm, ok := f.perms[permKey(id, userID)]; ok && perm.CanView {
			return true, nil
		}
	}
	return false, nil
}

// --- UserRepository (just what the filesystem services touch) ---

func (f *fakeStore) CreateUser(ctx context.Context, user *models.User) error {
	user.ID = f.nextID("user")
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (f *fakeStore) ListOthers(ctx context.Context, excludeID string) ([]models.UserSummary, error) {
	var out []models.UserSummary
	for _, user := range f.users {
		if user.ID == excludeID {
			continue
		}
		out = append(out, models.UserSummary{
			ID: user.ID, FirstName: user.FirstName, LastName: user.LastName, Email: user.Email,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (f *fakeStore) addUser(id, email string) {
	f.users[id] = &models.User{ID: id, FirstName: "Test", LastName: "User", Email: email}
}

// --- TransactionManager ---

func (f *fakeStore) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

// Adapter types: the repository interfaces share method names (Create,
// GetByID, Delete), so each one gets a thin view over the same store.

type fakeUploadRepo struct{ s *fakeStore }

func (r fakeUploadRepo) Create(ctx context.Context, file *models.UploadedFile) error {
	return r.s.CreateUpload(ctx, file)
}
func (r fakeUploadRepo) GetByID(ctx context.Context, id string) (*models.UploadedFile, error) {
	return r.s.GetUploadByID(ctx, id)
}
func (r fakeUploadRepo) Delete(ctx context.Context, id string) error {
	return r.s.DeleteUpload(ctx, id)
}
func (r fakeUploadRepo) ListByParent(ctx context.Context, ownerID string, parentID *string) ([]models.UploadedFile, error) {
	return r.s.ListByParent(ctx, ownerID, parentID)
}
func (r fakeUploadRepo) ListUnderFolders(ctx context.Context, folderIDs []string) ([]models.UploadedFile, error) {
	return r.s.ListUnderFolders(ctx, folderIDs)
}
func (r fakeUploadRepo) DeleteUnderFolders(ctx context.Context, folderIDs []string) error {
	return r.s.DeleteUnderFolders(ctx, folderIDs)
}

type fakePermRepo struct{ s *fakeStore }

func (r fakePermRepo) Upsert(ctx context.Context, perm *models.Permission) error {
	return r.s.Upsert(ctx, perm)
}
func (r fakePermRepo) Get(ctx context.Context, itemID, userID string) (*models.Permission, error) {
	return r.s.Get(ctx, itemID, userID)
}
func (r fakePermRepo) Delete(ctx context.Context, itemID, userID string) error {
	return r.s.DeletePerm(ctx, itemID, userID)
}
func (r fakePermRepo) ListForItem(ctx context.Context, itemID string) ([]models.PermissionGrant, error) {
	return r.s.ListForItem(ctx, itemID)
}
func (r fakePermRepo) SubtreeHasViewGrant(ctx context.Context, itemID, userID string) (bool, error) {
	return r.s.SubtreeHasViewGrant(ctx, itemID, userID)
}

type fakeUserRepo struct{ s *fakeStore }

func (r fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	return r.s.CreateUser(ctx, user)
}
func (r fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.s.GetUserByID(ctx, id)
}
func (r fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range r.s.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}
func (r fakeUserRepo) ListOthers(ctx context.Context, excludeID string) ([]models.UserSummary, error) {
	return r.s.ListOthers(ctx, excludeID)
}
func (r fakeUserRepo) SetResetToken(ctx context.Context, userID, tokenHash string, expires time.Time) error {
	user, ok := r.s.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	user.ResetTokenHash = &tokenHash
	user.ResetTokenExpires = &expires
	return nil
}
func (r fakeUserRepo) GetByResetToken(ctx context.Context, tokenHash string) (*models.User, error) {
	for _, user := range r.s.users {
		if user.ResetTokenHash != nil && *user.ResetTokenHash == tokenHash &&
			user.ResetTokenExpires != nil && user.ResetTokenExpires.After(time.Now()) {
			cp := *user
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}
func (r fakeUserRepo) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	user, ok := r.s.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	user.PasswordHash = passwordHash
	user.ResetTokenHash = nil
	user.ResetTokenExpires = nil
	return nil
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func sortItems(items []models.Item) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Kind != items[j].Kind {
			return items[i].Kind == models.KindFolder
		}
		return items[i].Name < items[j].Name
	})
}

// testEnv bundles the fakes with fully wired services.
type testEnv struct {
	store    *fakeStore
	blobs    *fakeBlobStore
	resolver services.PermissionResolver
	tree     services.TreeService
	struc    services.StructureService
	perms    services.PermissionService
	uploads  services.UploadService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := newFakeStore()
	blobs := newFakeBlobStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	extensions, err := NewExtensionRegistry()
	if err != nil {
		t.Fatalf("NewExtensionRegistry: %v", err)
	}

	uploadRepo := fakeUploadRepo{store}
	permRepo := fakePermRepo{store}
	userRepo := fakeUserRepo{store}

	resolver := NewPermissionResolver(store, permRepo, logger)
	return &testEnv{
		store:    store,
		blobs:    blobs,
		resolver: resolver,
		tree:     NewTreeService(store, uploadRepo, store, blobs, extensions, logger),
		struc:    NewStructureService(store, uploadRepo, resolver, logger),
		perms:    NewPermissionService(store, permRepo, userRepo, logger),
		uploads:  NewUploadService(uploadRepo, store, blobs, extensions, logger),
	}
}

func (e *testEnv) mustCreateItem(t *testing.T, owner, name string, kind models.ItemKind, parentID *string) *models.Item {
	t.Helper()
	item, err := e.tree.CreateItem(context.Background(), &models.CreateItemRequest{
		OwnerID:  owner,
		Name:     name,
		Kind:     kind,
		ParentID: parentID,
	})
	if err != nil {
		t.Fatalf("CreateItem(%s): %v", name, err)
	}
	return item
}

func (e *testEnv) mustGrant(t *testing.T, owner, itemID, grantee string, caps models.Capabilities) {
	t.Helper()
	err := e.perms.Grant(context.Background(), owner, itemID, &models.SetPermissionRequest{
		UserID:       grantee,
		Capabilities: caps,
	})
	if err != nil {
		t.Fatalf("Grant(%s -> %s): %v", itemID, grantee, err)
	}
}

func viewOnly() models.Capabilities { return models.Capabilities{CanView: true} }

// fakeBlobStore keeps payloads in a map.
type fakeBlobStore struct {
	blobs   map[string][]byte
	putErr  error
	deleted []string
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{blobs: make(map[string][]byte)}
}

func (f *fakeBlobStore) Put(ctx context.Context, key string, body io.Reader) error {
	if f.putErr != nil {
		return f.putErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.blobs[key] = data
	return nil
}

func (f *fakeBlobStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	data, ok := f.blobs[key]
	if !ok {
		return nil, fmt.Errorf("blob %s not found", key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeBlobStore) Delete(ctx context.Context, key string) error {
	delete(f.blobs, key)
	f.deleted = append(f.deleted, key)
	return nil
}
