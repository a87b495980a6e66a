package source

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T, schema string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	if _, err := db.Exec(schema); err != nil {
		t.Fatal(err)
	}
	return db
}

const msgSchema = `
CREATE TABLE MSG (
  localId INTEGER PRIMARY KEY,
  TalkerId INTEGER,
  Type INTEGER,
  SubType INTEGER,
  IsSender INTEGER,
  CreateTime INTEGER,
  Status INTEGER,
  StrContent TEXT,
  MsgSvrID INTEGER,
  BytesExtra BLOB,
  StrTalker TEXT,
  CompressContent BLOB,
  DisplayContent TEXT
);
`

const microMsgSchema = `
CREATE TABLE Contact (
  UserName TEXT PRIMARY KEY,
  Alias TEXT,
  Type INTEGER,
  VerifyFlag INTEGER,
  Remark TEXT,
  NickName TEXT,
  PYInitial TEXT,
  RemarkPYInitial TEXT,
  ExTraBuf BLOB
);
CREATE TABLE ContactHeadImgUrl (
  usrName TEXT PRIMARY KEY,
  smallHeadImgUrl TEXT,
  bigHeadImgUrl TEXT
);
CREATE TABLE ChatRoom (
  ChatRoomName TEXT PRIMARY KEY,
  RoomData BLOB
);
`

func TestMessageRepoListAfter(t *testing.T) {
	db := openTestDB(t, msgSchema)
	for i := 1; i <= 5; i++ {
		_, err := db.Exec(`
INSERT INTO MSG (localId, TalkerId, Type, SubType, IsSender, CreateTime, Status, StrContent, MsgSvrID, BytesExtra, StrTalker, CompressContent, DisplayContent)
VALUES (?, 7, 1, 0, 0, 1700000000, 2, ?, ?, NULL, 'wxid_peer', NULL, NULL)
`, i, "msg", 1000+i)
		if err != nil {
			t.Fatal(err)
		}
	}

	repo := NewMessageRepo(db)
	rows, err := repo.ListAfter(context.Background(), 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].LocalID != 3 || rows[1].LocalID != 4 {
		t.Fatalf("got localIds %d,%d, want 3,4", rows[0].LocalID, rows[1].LocalID)
	}
	if rows[0].StrContent.String != "msg" || rows[0].StrTalker != "wxid_peer" {
		t.Fatalf("row fields not scanned: %+v", rows[0])
	}

	rest, err := repo.ListAfter(context.Background(), 5, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(rest) != 0 {
		t.Fatalf("got %d rows past the end, want 0", len(rest))
	}
}

func TestContactRepoFiltersAndJoins(t *testing.T) {
	db := openTestDB(t, microMsgSchema)
	seed := []struct {
		user, nick string
		typ, vf    int
	}{
		{"wxid_a", "Alice", 3, 0},
		{"wxid_b", "", 3, 0},      // empty nickname: filtered
		{"wxid_c", "Carol", 4, 0}, // type 4: filtered
		{"wxid_d", "Dave", 3, 8},  // verify flag: filtered
	}
	for _, s := range seed {
		if _, err := db.Exec(`INSERT INTO Contact (UserName, Alias, Type, VerifyFlag, Remark, NickName, PYInitial, RemarkPYInitial, ExTraBuf)
VALUES (?, '', ?, ?, '', ?, '', '', NULL)`, s.user, s.typ, s.vf, s.nick); err != nil {
			t.Fatal(err)
		}
		if _, err := db.Exec(`INSERT INTO ContactHeadImgUrl (usrName, smallHeadImgUrl, bigHeadImgUrl) VALUES (?, 'small', 'big')`, s.user); err != nil {
			t.Fatal(err)
		}
	}

	repo := NewContactRepo(db)
	rows, err := repo.ListContacts(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].UserName != "wxid_a" {
		t.Fatalf("got %+v, want only wxid_a", rows)
	}
	if rows[0].SmallHeadImgURL.String != "small" {
		t.Fatalf("head image join missing: %+v", rows[0])
	}
}

func TestContactRepoLookupNames(t *testing.T) {
	db := openTestDB(t, microMsgSchema)
	if _, err := db.Exec(`INSERT INTO Contact (UserName, Alias, Type, VerifyFlag, Remark, NickName, PYInitial, RemarkPYInitial, ExTraBuf)
VALUES ('wxid_a', '', 3, 0, '老王', '王先生', '', '', NULL)`); err != nil {
		t.Fatal(err)
	}

	repo := NewContactRepo(db)
	remark, nick, ok, err := repo.LookupNames(context.Background(), "wxid_a")
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if remark != "老王" || nick != "王先生" {
		t.Fatalf("got %q/%q", remark, nick)
	}

	_, _, ok, err = repo.LookupNames(context.Background(), "wxid_missing")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("missing contact reported as found")
	}
}

func TestContactRepoListRooms(t *testing.T) {
	db := openTestDB(t, microMsgSchema)
	if _, err := db.Exec(`INSERT INTO ChatRoom (ChatRoomName, RoomData) VALUES ('999@chatroom', X'0102')`); err != nil {
		t.Fatal(err)
	}

	repo := NewContactRepo(db)
	rooms, err := repo.ListRooms(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(rooms) != 1 || rooms[0].ChatRoomName != "999@chatroom" || len(rooms[0].RoomData) != 2 {
		t.Fatalf("got %+v", rooms)
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(Options{Path: filepath.Join(t.TempDir(), "absent.db")})
	if err == nil {
		t.Fatal("want error for missing source database")
	}
}
