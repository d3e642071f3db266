package androidxml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseManifestComponents(t *testing.T) {
	result := ParseManifest("AndroidManifest.xml", []byte(`<?xml version="1.0" encoding="utf-8"?>
<manifest xmlns:android="http://schemas.android.com/apk/res/android"
    package="com.example.app">
    <application android:name=".App">
        <activity android:name=".MainActivity" />
        <activity android:name="SettingsActivity" />
        <service android:name="com.example.app.sync.SyncService" />
        <receiver android:name=".BootReceiver" />
        <meta-data android:name="initializer" android:value="com.example.app.StartupInit" />
    </application>
</manifest>`))

	require.Equal(t, "com.example.app", result.Package)

	names := make([]string, 0, len(result.ClassRefs))
	for _, c := range result.ClassRefs {
		names = append(names, c.Name)
	}
	assert.Contains(t, names, "com.example.app.App")
	assert.Contains(t, names, "com.example.app.MainActivity")
	assert.Contains(t, names, "com.example.app.SettingsActivity")
	assert.Contains(t, names, "com.example.app.sync.SyncService")
	assert.Contains(t, names, "com.example.app.BootReceiver")
	assert.Contains(t, names, "com.example.app.StartupInit")
}

func TestParseLayoutCustomViewsAndContext(t *testing.T) {
	result := ParseLayout("res/layout/screen.xml", []byte(`<?xml version="1.0"?>
<LinearLayout xmlns:android="http://schemas.android.com/apk/res/android"
    xmlns:tools="http://schemas.android.com/tools"
    tools:context=".home.HomeActivity">
    <com.example.widget.ChipView android:id="@+id/chips" android:text="@string/chips_label" />
    <fragment android:name="com.example.home.FeedFragment" />
    <view class="com.example.widget.Divider" />
</LinearLayout>`))

	names := make([]string, 0, len(result.ClassRefs))
	for _, c := range result.ClassRefs {
		names = append(names, c.Name)
	}
	assert.Contains(t, names, "com.example.widget.ChipView")
	assert.Contains(t, names, "com.example.home.FeedFragment")
	assert.Contains(t, names, "com.example.widget.Divider")
	assert.Contains(t, names, ".home.HomeActivity")

	assert.Contains(t, result.ResourceRefs, ResourceRef{Type: "string", Name: "chips_label"})
	// @+id defines-and-references
	assert.Contains(t, result.ResourceRefs, ResourceRef{Type: "id", Name: "chips"})
}

func TestParseLayoutDataBinding(t *testing.T) {
	result := ParseLayout("res/layout/item.xml", []byte(`<layout>
  <data>
    <variable name="viewModel" type="com.example.home.ItemViewModel" />
  </data>
  <TextView android:onClick="@{viewModel.onTap}" android:text="@{item.title}" />
</layout>`))

	var classNames []string
	for _, c := range result.ClassRefs {
		classNames = append(classNames, c.Name)
	}
	assert.Contains(t, classNames, "com.example.home.ItemViewModel")

	var identNames []string
	for _, id := range result.Identifiers {
		identNames = append(identNames, id.Name)
	}
	assert.Contains(t, identNames, "viewModel")
	assert.Contains(t, identNames, "item")
}

func TestParseValuesDefinitions(t *testing.T) {
	result := ParseValues("res/values/strings.xml", []byte(`<?xml version="1.0" encoding="utf-8"?>
<resources>
    <string name="app_name">Demo</string>
    <string name="greeting">Hello</string>
    <color name="accent">#FF0000</color>
    <dimen name="gutter">16dp</dimen>
    <style name="Theme.Demo" parent="@style/Theme.Material" />
    <item type="id" name="drag_handle" />
</resources>`))

	types := make(map[string][]string)
	for _, r := range result.Resources {
		types[r.Type] = append(types[r.Type], r.Name)
	}
	assert.ElementsMatch(t, []string{"app_name", "greeting"}, types["string"])
	assert.Equal(t, []string{"accent"}, types["color"])
	assert.Equal(t, []string{"gutter"}, types["dimen"])
	assert.Equal(t, []string{"Theme.Demo"}, types["style"])
	assert.Equal(t, []string{"drag_handle"}, types["id"])

	// the parent= attribute references another style
	assert.Contains(t, result.ResourceRefs, ResourceRef{Type: "style", Name: "Theme.Material"})
}

func TestParseMenuActionClasses(t *testing.T) {
	result := ParseLayout("res/menu/main.xml", []byte(`<menu xmlns:app="http://schemas.android.com/apk/res-auto">
    <item app:actionViewClass="androidx.appcompat.widget.SearchView" />
    <item app:actionProviderClass="com.example.menu.ShareProvider" />
</menu>`))

	var names []string
	for _, c := range result.ClassRefs {
		names = append(names, c.Name)
	}
	assert.Contains(t, names, "androidx.appcompat.widget.SearchView")
	assert.Contains(t, names, "com.example.menu.ShareProvider")
}

func TestMalformedXMLTolerated(t *testing.T) {
	result := ParseValues("res/values/bad.xml", []byte(`<resources>
    <string name="ok">fine</string>
    <string name="broken`))
	require.NotEmpty(t, result.Resources)
	assert.Equal(t, "ok", result.Resources[0].Name)
}

func TestSplitIdentifiers(t *testing.T) {
	assert.Equal(t, []string{"viewModel"}, splitIdentifiers("viewModel.onClick"))
	assert.ElementsMatch(t, []string{"a", "b"}, splitIdentifiers("a.x ?? b.y"))
}
