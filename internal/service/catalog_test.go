package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AshimStha/FloraBase-Frontend/internal/listquery"
	"github.com/AshimStha/FloraBase-Frontend/internal/resource"
)

func TestCatalogList(t *testing.T) {
	e := newEnv(t)
	svc := NewCatalogService(e.api, listquery.Options{}, e.logger)

	list := svc.List()
	t.Cleanup(list.Close)
	list.Start()
	list.Wait()

	st := list.State()
	require.NoError(t, st.Err)
	assert.Len(t, st.Items, 5)

	list.NextPage()
	list.Wait()
	assert.Equal(t, 2, list.State().Page)
	assert.Len(t, list.State().Items, 5)

	list.SetSearchQuery("lily")
	list.SubmitSearch()
	list.Wait()
	st = list.State()
	assert.Equal(t, 1, st.Page)
	require.Len(t, st.Items, 1)
	assert.Equal(t, "Lilium canadense", st.Items[0].ScientificName)
}

func TestCatalogFlower(t *testing.T) {
	e := newEnv(t)
	svc := NewCatalogService(e.api, listquery.Options{}, e.logger)

	snap := svc.Flower("263319").Load(context.Background())
	require.Equal(t, resource.Loaded, snap.Status)
	assert.Equal(t, "Trillium grandiflorum", snap.Value.ScientificName)

	missing := svc.Flower("1").Load(context.Background())
	assert.Equal(t, resource.Failed, missing.Status)
	assert.NotEmpty(t, missing.Message)
}
