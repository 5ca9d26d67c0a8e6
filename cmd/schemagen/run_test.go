package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schemagen/internal/config"
	"schemagen/internal/datasource/file"
	"schemagen/internal/ddl"
	"schemagen/internal/schema"
)

const userJava = `package com.example.entity;

import com.example.base.BaseEntity;

/**
 * 用户
 */
public class User extends BaseEntity {
    /** 用户名 */
    private String userName;
    // 年龄
    private Integer age;
    private Boolean isDeleted;
    private transient String token;
}
`

const baseJava = `package com.example.base;

public class BaseEntity {
    /** 编号 */
    private Long id;
    private Date createTime;
}
`

const orderJava = `package com.example.entity;

public class Order {
    private List<String> items;
}
`

const projectYAML = `job: test
source:
  root: svc
  scan: [com.example.entity]
entities:
  - name: Country
    comment: 国家
    fields:
      - {name: code, type: text}
      - {name: name, type: text, comment: 名称}
customize:
  country:
    - key: code
`

const wantScript = "CREATE TABLE `country` (\n" +
	"    `code` varchar(255) COMMENT '',\n" +
	"    `name` varchar(255) COMMENT '名称',\n" +
	"    PRIMARY KEY (`code`)\n" +
	") ENGINE=InnoDB DEFAULT CHARSET=utf8 COMMENT='国家表';\n" +
	"\n" +
	"CREATE TABLE `user` (\n" +
	"    `id` bigint(20) NOT NULL AUTO_INCREMENT COMMENT '编号',\n" +
	"    `user_name` varchar(255) COMMENT '用户名',\n" +
	"    `age` tinyint(4) COMMENT '年龄',\n" +
	"    `is_deleted` boolean COMMENT '',\n" +
	"    `create_time` datetime COMMENT '',\n" +
	"    PRIMARY KEY (`id`)\n" +
	") ENGINE=InnoDB AUTO_INCREMENT=1 DEFAULT CHARSET=utf8 COMMENT='用户表';\n"

func writeProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := []struct{ rel, body string }{
		{"schemagen.yaml", projectYAML},
		{"svc/pom.xml", "<project/>"},
		{"svc/src/main/java/com/example/entity/User.java", userJava},
		{"svc/src/main/java/com/example/entity/Order.java", orderJava},
		{"svc/src/main/java/com/example/base/BaseEntity.java", baseJava},
	}
	for _, f := range files {
		p := filepath.Join(dir, filepath.FromSlash(f.rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(f.body), 0o644))
	}
	return filepath.Join(dir, "schemagen.yaml")
}

func TestRun_EndToEnd(t *testing.T) {
	t.Parallel()

	p, err := config.Load(writeProject(t))
	require.NoError(t, err)
	require.False(t, config.HasErrors(config.ValidateProject(p)))

	var out bytes.Buffer
	sum, err := run(context.Background(), p, runOptions{stdout: &out})
	require.NoError(t, err)

	assert.Equal(t, wantScript, out.String())
	assert.Equal(t, summary{rendered: 2, empty: 1, degraded: 1}, sum)
}

func TestRun_FileOutputIsStable(t *testing.T) {
	t.Parallel()

	p, err := config.Load(writeProject(t))
	require.NoError(t, err)
	p.Output = config.Output{Kind: "file", Path: filepath.Join(t.TempDir(), "schema.sql")}

	for i := 0; i < 2; i++ {
		_, err := run(context.Background(), p, runOptions{})
		require.NoError(t, err)
		b, err := os.ReadFile(p.Output.Path)
		require.NoError(t, err)
		assert.Equal(t, wantScript, string(b), "run %d", i)
	}
}

func TestRun_DumpsTables(t *testing.T) {
	t.Parallel()

	p, err := config.Load(writeProject(t))
	require.NoError(t, err)

	var out, dump bytes.Buffer
	_, err = run(context.Background(), p, runOptions{stdout: &out, dump: &dump})
	require.NoError(t, err)
	assert.Contains(t, dump.String(), "ddl.Table")
	assert.Contains(t, dump.String(), `"user_name"`)
}

func TestRun_ScanErrorFailsRun(t *testing.T) {
	t.Parallel()

	p, err := config.Load(writeProject(t))
	require.NoError(t, err)
	p.Source.Scan = []string{"com.example.nowhere"}

	_, err = run(context.Background(), p, runOptions{stdout: &bytes.Buffer{}})
	assert.Error(t, err)
}

func TestGenerate_IsolatesFailures(t *testing.T) {
	t.Parallel()

	ok := schema.Entity{Name: "Tag", Fields: []schema.Field{{Name: "label", Type: schema.TypeText}}}
	boom := schema.Entity{Name: "Boom", Fields: []schema.Field{{Name: "id", Type: schema.TypeInt64}}}
	empty := schema.Entity{Name: "Blob", Fields: []schema.Field{{Name: "data", Type: schema.TypeOther}}}
	unreadable := schema.Entity{Name: "Locked"}

	results := []file.Result{
		{Entity: boom},
		{Entity: unreadable, Err: os.ErrPermission},
		{Entity: empty},
		{Entity: ok},
	}
	opsFor := func(entity, table string) []ddl.Op {
		if entity == "Boom" {
			return []ddl.Op{func(*ddl.Table) { panic("broken customization") }}
		}
		return nil
	}

	var sum summary
	stmts := generate(results, config.Project{Job: "t"}, opsFor, runOptions{}, &sum)

	require.Len(t, stmts, 1)
	assert.True(t, strings.HasPrefix(stmts[0], "CREATE TABLE `tag` ("))
	assert.Equal(t, summary{rendered: 1, empty: 1, failed: 2}, sum)
}

func TestProcessOne_RecoversPanic(t *testing.T) {
	t.Parallel()

	e := schema.Entity{Name: "X", Fields: []schema.Field{{Name: "id", Type: schema.TypeInt64}}}
	sql, err := processOne(e, ddl.BuildOptions{}, func(string, string) []ddl.Op {
		return []ddl.Op{func(*ddl.Table) { panic("x") }}
	}, nil)
	assert.Empty(t, sql)
	assert.ErrorContains(t, err, "panic: x")
}

func TestRequests_DedupAndOrder(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	for _, rel := range []string{"a/B.java", "a/A.java"} {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, nil, 0o644))
	}
	list := filepath.Join(t.TempDir(), "types.txt")
	require.NoError(t, os.WriteFile(list, []byte("# extra\nz.Z\na.A\n"), 0o644))

	p := config.Project{
		Source:   config.Source{Scan: []string{"a"}, List: list},
		Entities: []config.Entity{{Name: "a.B", Comment: "explicit"}},
	}
	reqs, err := requests(context.Background(), p, root)
	require.NoError(t, err)

	var names []string
	for _, r := range reqs {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"a.B", "z.Z", "a.A"}, names)
	assert.Equal(t, "explicit", reqs[0].Comment)
}

func TestRequests_RemoteList(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "# remote\ncom.example.User\ncom.example.Order\n")
	}))
	defer srv.Close()

	p := config.Project{Source: config.Source{List: srv.URL + "/types.txt"}}
	reqs, err := requests(context.Background(), p, t.TempDir())
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.Equal(t, "com.example.User", reqs[0].Name)
	assert.Equal(t, "com.example.Order", reqs[1].Name)
}
