package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-sif/aggregate"
)

func TestLookup(t *testing.T) {
	for _, name := range registeredNames() {
		f, params, err := lookup(name)
		require.Nil(t, err, name)
		require.Nil(t, params, name)
		require.Equal(t, name, f().GetName())
	}
	f, _, err := lookup("composed(count, uniqExact)")
	require.Nil(t, err)
	require.Equal(t, "composed(count, uniqExact)", f().GetTypeID())
	_, _, err = lookup("median")
	require.NotNil(t, err)
	_, _, err = lookup("composed(count, median)")
	require.NotNil(t, err)
}

func TestLookupParametersAndNesting(t *testing.T) {
	f, params, err := lookup("quantile(0.9)")
	require.Nil(t, err)
	require.Equal(t, 1, params.NumValues())
	level, err := params.GetFloat64(0)
	require.Nil(t, err)
	require.Equal(t, 0.9, level)
	require.Equal(t, "quantile", f().GetName())

	f, params, err = lookup("composed(count, quantile(0.9), composed(min, max))")
	require.Nil(t, err)
	require.Nil(t, params)
	fn := f()
	require.Nil(t, fn.SetArguments([]aggregate.ColumnType{&aggregate.Float64ColumnType{}}))
	require.Equal(t, "composed(count(Float64), quantile(0.9)(Float64), composed(min(Float64), max(Float64)))", fn.GetTypeID())

	for _, bad := range []string{"quantile(high)", "composed(count, (sum)", "composed(count,)", "composed", "sum(1"} {
		_, _, err := lookup(bad)
		require.NotNil(t, err, bad)
	}
}

func TestFunctionsCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"functions"})
	require.Nil(t, rootCmd.Execute())
	for _, name := range append(registeredNames(), "composed") {
		require.Contains(t, out.String(), name)
	}
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.Nil(t, err)
	require.Nil(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	data := "{\"v\": 2}\n{\"v\": 4}\n{\"v\": null}\n{\"v\": 6}\n{\"v\": 8}\n"
	path := filepath.Join(dir, "values.jsonl")
	require.Nil(t, os.WriteFile(path, []byte(data), 0o644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"run", "-f", "avg", "-c", "v:Nullable(Float64)", "-i", path, "--partitions", "3", "--compression", "lz4", "--log-level", "error"})
	require.Nil(t, rootCmd.Execute())
	require.Equal(t, "avg(Nullable(Float64))\tFloat64\t5.000000\n", out.String())
}
