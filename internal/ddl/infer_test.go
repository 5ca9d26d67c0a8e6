package ddl

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"schemagen/internal/schema"
)

func userEntity() schema.Entity {
	return schema.Entity{
		Name: "UserAccount",
		Lines: strings.Split(`package com.example.entity;

/**
 * User account
 *
 * @author someone
 */
public class UserAccount extends BaseEntity {

    private Integer id;

    /**
     * login name
     */
    private String userName;

    // soft delete flag
    private Integer isDeleted;

    @Transient
    private String password;

    private String nickName; // shown in UI

    public String getUserName() {
        return userName;
    }
}`, "\n"),
		Fields: []schema.Field{
			{Name: "id", Type: schema.TypeInt32},
			{Name: "userName", Type: schema.TypeText},
			{Name: "isDeleted", Type: schema.TypeInt32},
			{Name: "password", Type: schema.TypeText, Excluded: true},
			{Name: "nickName", Type: schema.TypeText},
		},
	}
}

func TestBuildTable_UserScenario(t *testing.T) {
	t.Parallel()

	tbl, err := BuildTable(userEntity(), BuildOptions{})
	if err != nil {
		t.Fatalf("BuildTable() error = %v", err)
	}
	if tbl.Name != "user_account" {
		t.Fatalf("Name = %q, want user_account", tbl.Name)
	}
	if tbl.Comment != "User account表" {
		t.Fatalf("Comment = %q, want %q", tbl.Comment, "User account表")
	}
	wantCols := []string{"id", "user_name", "is_deleted", "nick_name"}
	if got := tbl.ColumnNames(); !reflect.DeepEqual(got, wantCols) {
		t.Fatalf("columns = %v, want %v", got, wantCols)
	}
	if c := tbl.Column("is_deleted"); c.Type != TypeTinyInt || c.Comment != "soft delete flag" {
		t.Fatalf("is_deleted = %+v", c)
	}
	if c := tbl.Column("user_name"); c.Comment != "login name" {
		t.Fatalf("user_name comment = %q", c.Comment)
	}
	if c := tbl.Column("nick_name"); c.Comment != "shown in UI" {
		t.Fatalf("nick_name comment = %q", c.Comment)
	}
	if !tbl.Key().Increased {
		t.Fatalf("integer id key should be marked Increased")
	}

	sql, err := BuildCreateTableSQL(tbl)
	if err != nil {
		t.Fatalf("BuildCreateTableSQL() error = %v", err)
	}
	for _, want := range []string{
		"    `id` int(11) NOT NULL AUTO_INCREMENT COMMENT '主键',",
		"    `is_deleted` tinyint(4) COMMENT 'soft delete flag',",
		") ENGINE=InnoDB AUTO_INCREMENT=1 DEFAULT CHARSET=utf8 COMMENT='User account表';",
	} {
		if !strings.Contains(sql, want) {
			t.Fatalf("SQL missing %q:\n%s", want, sql)
		}
	}
	if strings.Contains(sql, "password") {
		t.Fatalf("excluded field rendered:\n%s", sql)
	}
}

func TestBuildTable_ParentMerge(t *testing.T) {
	t.Parallel()

	parent := schema.Entity{
		Name: "BaseEntity",
		Lines: []string{
			"public abstract class BaseEntity {",
			"    /** creation time */",
			"    private Date createdAt;",
			"    private String userName; // parent comment",
			"}",
		},
		Fields: []schema.Field{
			{Name: "createdAt", Type: schema.TypeDate},
			{Name: "userName", Type: schema.TypeText},
		},
	}
	e := userEntity()
	e.Parent = &parent

	tbl, err := BuildTable(e, BuildOptions{})
	if err != nil {
		t.Fatalf("BuildTable() error = %v", err)
	}
	want := []string{"id", "user_name", "is_deleted", "nick_name", "created_at"}
	if got := tbl.ColumnNames(); !reflect.DeepEqual(got, want) {
		t.Fatalf("columns = %v, want %v", got, want)
	}
	if c := tbl.Column("created_at"); c.Comment != "creation time" || c.Type != TypeDateTime {
		t.Fatalf("created_at = %+v, want comment from parent declaration", c)
	}
	if c := tbl.Column("user_name"); c.Comment != "login name" {
		t.Fatalf("user_name comment = %q, own field must win", c.Comment)
	}
}

func TestBuildTable_RootParentIgnored(t *testing.T) {
	t.Parallel()

	e := schema.Entity{
		Name:   "Tag",
		Fields: []schema.Field{{Name: "label", Type: schema.TypeText}},
		Parent: &schema.Entity{Name: "Object", Fields: []schema.Field{{Name: "hash", Type: schema.TypeInt32}}},
	}
	tbl, err := BuildTable(e, BuildOptions{})
	if err != nil {
		t.Fatalf("BuildTable() error = %v", err)
	}
	if got := tbl.ColumnNames(); !reflect.DeepEqual(got, []string{"label"}) {
		t.Fatalf("columns = %v, want [label]", got)
	}
}

func TestBuildTable_KeySelection(t *testing.T) {
	t.Parallel()

	e := schema.Entity{
		Name: "Order",
		Fields: []schema.Field{
			{Name: "code", Type: schema.TypeText},
			{Name: "amount", Type: schema.TypeDecimal},
			{Name: "id", Type: schema.TypeInt64},
			{Name: "note", Type: schema.TypeText},
		},
	}
	tbl, err := BuildTable(e, BuildOptions{})
	if err != nil {
		t.Fatalf("BuildTable() error = %v", err)
	}
	want := []string{"id", "code", "amount", "note"}
	if got := tbl.ColumnNames(); !reflect.DeepEqual(got, want) {
		t.Fatalf("columns = %v, want %v", got, want)
	}

	e.Fields = e.Fields[:2]
	tbl, err = BuildTable(e, BuildOptions{})
	if err != nil {
		t.Fatalf("BuildTable() error = %v", err)
	}
	if tbl.Key().Name != "code" || tbl.Key().Increased {
		t.Fatalf("key = %+v, want first column code without auto increment", tbl.Key())
	}
}

func TestBuildTable_Empty(t *testing.T) {
	t.Parallel()

	e := schema.Entity{
		Name: "Blob",
		Fields: []schema.Field{
			{Name: "data", Type: schema.TypeOther},
			{Name: "tmp", Type: schema.TypeText, Excluded: true},
		},
	}
	tbl, err := BuildTable(e, BuildOptions{})
	if !errors.Is(err, ErrEmptyTable) {
		t.Fatalf("BuildTable() error = %v, want ErrEmptyTable", err)
	}
	if tbl != nil {
		t.Fatalf("BuildTable() table = %+v, want nil", tbl)
	}
}

func TestBuildTable_CommentFallbacks(t *testing.T) {
	t.Parallel()

	e := schema.Entity{
		Name:    "Product",
		Comment: "Product catalog",
		Fields: []schema.Field{
			{Name: "id", Type: schema.TypeInt32},
			{Name: "title", Type: schema.TypeText, Comment: "display title"},
		},
	}
	tbl, err := BuildTable(e, BuildOptions{TableSuffix: " table", TablePrefix: "t_", ColumnPrefix: "c_", KeyComment: "pk"})
	if err != nil {
		t.Fatalf("BuildTable() error = %v", err)
	}
	if tbl.Comment != "Product catalog table" {
		t.Fatalf("Comment = %q", tbl.Comment)
	}
	if c := tbl.Column("title"); c.Comment != "display title" {
		t.Fatalf("title comment = %q, want descriptor comment", c.Comment)
	}
	if tbl.TablePrefix != "t_" || tbl.ColumnPrefix != "c_" || tbl.KeyComment != "pk" {
		t.Fatalf("options not carried: %+v", tbl)
	}

	tbl, _ = BuildTable(e, BuildOptions{NoTableSuffix: true})
	if tbl.Comment != "Product catalog" {
		t.Fatalf("Comment = %q, want no marker", tbl.Comment)
	}
}

func TestIntrospect_MissingSourceDegrades(t *testing.T) {
	t.Parallel()

	e := userEntity()
	e.Lines = nil
	cols := Introspect(e)
	if len(cols) != 4 {
		t.Fatalf("len(cols) = %d, want 4", len(cols))
	}
	for _, c := range cols {
		if c.Comment != "" {
			t.Fatalf("column %s comment = %q, want empty without source", c.Name, c.Comment)
		}
	}
}
