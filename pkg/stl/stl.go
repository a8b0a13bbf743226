// Package stl provides a streaming binary STL file writer for solid meshes.
package stl

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/chazu/solidviz/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

const (
	headerSize = 80
	bufSize    = 10000
)

// Header is written at the start of every file. It must not begin with
// "solid", which readers take as the mark of an ASCII STL.
const Header = "binary STL: curve solids"

// Client is a streaming binary STL file writer client.
type Client struct {
	wg sync.WaitGroup // ensures file is closed
	ch chan Tri

	mu  sync.RWMutex
	err error
}

// Tri represents an STL triangle.
type Tri struct {
	// Normal plus three vertex triplets: [3]float{x,y,z}
	N, V1, V2, V3 [3]float32
	_             uint16 // unused attribute byte count
}

type writeSeekCloser interface {
	io.Writer
	io.Seeker
	io.Closer
}

// New creates filename and returns a streaming writer for it.
func New(filename string) (*Client, error) {
	out, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	c, err := newClient(out)
	if err != nil {
		out.Close()
		return nil, err
	}
	return c, nil
}

func newClient(out writeSeekCloser) (*Client, error) {
	header := struct {
		Text  [headerSize]uint8
		Count uint32 // overwritten on Close
	}{}
	copy(header.Text[:], Header)
	if err := binary.Write(out, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	c := &Client{ch: make(chan Tri, bufSize)}
	c.start(out)
	return c, nil
}

func (c *Client) start(out writeSeekCloser) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.setErr(c.writer(out))
	}()
}

// setErr records err unless an earlier error is already recorded.
func (c *Client) setErr(err error) {
	if err == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err == nil {
		c.err = err
	}
}

// Err returns the first write error seen so far, if any.
func (c *Client) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// Write queues a triangle. It returns the first write error seen so far,
// if any; once the file has failed, further triangles are discarded.
func (c *Client) Write(t *Tri) error {
	if err := c.Err(); err != nil {
		return err
	}
	c.ch <- *t
	return c.Err()
}

// Close patches the triangle count into the header and closes the file.
func (c *Client) Close() error {
	close(c.ch)
	c.wg.Wait()
	return c.Err()
}

// writer drains ch until it is closed. The first failed write is published
// at once so Write can report it; draining continues so that Write never
// blocks on a dead writer.
func (c *Client) writer(out writeSeekCloser) error {
	var (
		count  uint32
		failed bool
	)
	for t := range c.ch {
		if failed {
			continue
		}
		if err := binary.Write(out, binary.LittleEndian, &t); err != nil {
			c.setErr(fmt.Errorf("write triangle %d: %w", count, err))
			failed = true
			continue
		}
		count++
	}
	if failed {
		out.Close()
		return nil
	}

	if _, err := out.Seek(headerSize, io.SeekStart); err != nil {
		out.Close()
		return fmt.Errorf("seek: %w", err)
	}
	if err := binary.Write(out, binary.LittleEndian, &count); err != nil {
		out.Close()
		return fmt.Errorf("write count %v: %w", count, err)
	}

	return out.Close()
}

func vec32(v v3.Vec) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}

// WriteMesh queues every face of m. Face normals are taken from m.Normals
// when present and computed from the winding otherwise.
func (c *Client) WriteMesh(m *kernel.Mesh) error {
	if m == nil || m.IsEmpty() {
		return nil
	}
	normals := m.Normals
	if len(normals) != len(m.Faces) {
		cp := *m
		cp.ComputeFaceNormals()
		normals = cp.Normals
	}
	for i := range m.Faces {
		t := m.Triangle(i)
		tri := Tri{
			N:  vec32(normals[i]),
			V1: vec32(t[0]),
			V2: vec32(t[1]),
			V3: vec32(t[2]),
		}
		if err := c.Write(&tri); err != nil {
			return err
		}
	}
	return nil
}

// Save writes all meshes into one STL file.
func Save(filename string, meshes ...*kernel.Mesh) error {
	c, err := New(filename)
	if err != nil {
		return err
	}
	for _, m := range meshes {
		if err := c.WriteMesh(m); err != nil {
			c.Close()
			return fmt.Errorf("stl: %s: %w", m.PartName, err)
		}
	}
	return c.Close()
}
