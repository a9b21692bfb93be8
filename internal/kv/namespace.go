package kv

import "context"

type namespaced struct {
	inner  Store
	prefix string
}

// WithNamespace prefixes every key with prefix + ":". An empty prefix returns
// inner unchanged.
func WithNamespace(inner Store, prefix string) Store {
	if prefix == "" {
		return inner
	}
	return &namespaced{inner: inner, prefix: prefix + ":"}
}

func (n *namespaced) key(k string) string { return n.prefix + k }

func (n *namespaced) Get(ctx context.Context, key string) (Entry, error) {
	e, err := n.inner.Get(ctx, n.key(key))
	if err != nil {
		return Entry{}, err
	}
	e.Key = key
	return e, nil
}

func (n *namespaced) Set(ctx context.Context, key string, value []byte) error {
	return n.inner.Set(ctx, n.key(key), value)
}

func (n *namespaced) Delete(ctx context.Context, key string) error {
	return n.inner.Delete(ctx, n.key(key))
}

func (n *namespaced) CompareAndSwap(ctx context.Context, key, revision string, value []byte) (bool, error) {
	return n.inner.CompareAndSwap(ctx, n.key(key), revision, value)
}

func (n *namespaced) Driver() Driver { return n.inner.Driver() }

func (n *namespaced) Close() error { return n.inner.Close() }
