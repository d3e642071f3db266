package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftdetect/deadwood/pkg/graph"
)

func parseJava(t *testing.T, source string) *graph.FileResult {
	t.Helper()
	p := New()
	defer p.Close()
	fr, err := p.Parse("Test.java", []byte(source))
	require.NoError(t, err)
	return fr
}

func TestJavaSimpleClass(t *testing.T) {
	fr := parseJava(t, `package com.example;

public class Account {
    private long balance;

    public void deposit(long amount) {
        balance += amount;
    }
}
`)
	assert.Equal(t, "com.example", fr.Package)

	cls := findDecl(fr, "Account", graph.KindClass)
	require.NotNil(t, cls)
	assert.Equal(t, "com.example.Account", cls.FQN)
	assert.Equal(t, graph.VisPublic, cls.Visible)

	balance := findDecl(fr, "balance", graph.KindField)
	require.NotNil(t, balance)
	assert.Equal(t, graph.VisPrivate, balance.Visible)

	deposit := findDecl(fr, "deposit", graph.KindMethod)
	require.NotNil(t, deposit)
	assert.Equal(t, 1, deposit.Arity)

	// += reads and writes the field
	assert.True(t, hasRef(fr, "balance", graph.RefWrite))
	assert.True(t, hasRef(fr, "balance", graph.RefRead))
}

func TestJavaImportsAndStarImports(t *testing.T) {
	fr := parseJava(t, `package com.example;

import com.example.util.Strings;
import com.example.model.*;

class Test {}
`)
	assert.Contains(t, fr.Imports, "com.example.util.Strings")
	assert.Contains(t, fr.Imports, "com.example.model.*")
}

func TestJavaInterfaceAndEnum(t *testing.T) {
	fr := parseJava(t, `package com.example;

interface Greeter {
    String greet(String name);
}

enum Status {
    ACTIVE, SUSPENDED
}
`)
	assert.NotNil(t, findDecl(fr, "Greeter", graph.KindInterface))

	status := findDecl(fr, "Status", graph.KindEnumClass)
	require.NotNil(t, status)
	active := findDecl(fr, "ACTIVE", graph.KindEnumCase)
	require.NotNil(t, active)
	assert.Equal(t, status.ID, active.Parent)
}

func TestJavaPackagePrivateDefault(t *testing.T) {
	fr := parseJava(t, `package com.example;

class Quiet {
    void helper() {}
}
`)
	cls := findDecl(fr, "Quiet", graph.KindClass)
	require.NotNil(t, cls)
	assert.Equal(t, graph.VisPackagePrivate, cls.Visible)
}

func TestJavaInheritanceRefs(t *testing.T) {
	fr := parseJava(t, `package com.example;

public class LoginActivity extends BaseActivity implements Refreshable {
}
`)
	cls := findDecl(fr, "LoginActivity", graph.KindClass)
	require.NotNil(t, cls)
	assert.Contains(t, cls.SuperTypes, "BaseActivity")

	assert.True(t, hasRef(fr, "BaseActivity", graph.RefExtends))
	assert.True(t, hasRef(fr, "Refreshable", graph.RefImplements))
}

func TestJavaInstantiationAndCalls(t *testing.T) {
	fr := parseJava(t, `package com.example;

class Factory {
    Widget build() {
        Widget w = new Widget();
        w.prepare();
        return w;
    }
}
`)
	assert.True(t, hasRef(fr, "Widget", graph.RefInstantiation))
	assert.True(t, hasRef(fr, "prepare", graph.RefCall))
}

func TestJavaOverrideAnnotation(t *testing.T) {
	fr := parseJava(t, `package com.example;

class Child extends Parent {
    @Override
    public void onStop() {
        super.onStop();
    }
}
`)
	onStop := findDecl(fr, "onStop", graph.KindMethod)
	require.NotNil(t, onStop)
	assert.True(t, onStop.Override)
}

func TestJavaConstructorAndParams(t *testing.T) {
	fr := parseJava(t, `package com.example;

class Point {
    int x;
    Point(int x, int unusedTag) {
        this.x = x;
    }
}
`)
	ctor := findDecl(fr, "constructor", graph.KindConstructor)
	require.NotNil(t, ctor)
	assert.Equal(t, 2, ctor.Arity)
	assert.NotNil(t, findDecl(fr, "unusedTag", graph.KindParameter))
}
