// Package inspect serves a read-only JSON view of a gene pool over HTTP.
package inspect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/Faultbox/genepool/pkg/genepool"
)

var errNotFound = errors.New("index out of range")

// Server exposes one pool. The pool is immutable, so handlers need no
// locking.
type Server struct {
	pool *genepool.GenePool
	log  *zap.Logger
}

// New creates a server for g.
func New(g *genepool.GenePool, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{pool: g, log: log}
}

// Handler returns the routed handler with panic recovery and access logging.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Methods(http.MethodGet).Subrouter()
	api.HandleFunc("/pool", s.handlePool)
	api.HandleFunc("/dna/{dna:[0-9]+}/mesh/{mesh:[0-9]+}/vertex/{vertex:[0-9]+}", s.handleVertex)
	api.HandleFunc("/dna/{dna:[0-9]+}/mesh/{mesh:[0-9]+}/blendshape/{target:[0-9]+}", s.handleBlendShape)
	api.HandleFunc("/dna/{dna:[0-9]+}/joint/{joint:[0-9]+}", s.handleJoint)
	api.HandleFunc("/dna/{dna:[0-9]+}/group/{group:[0-9]+}", s.handleJointGroup)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, errNotFound)
	})

	access := zap.NewStdLog(s.log).Writer()
	h := handlers.LoggingHandler(access, r)
	return handlers.RecoveryHandler(handlers.RecoveryLogger(zap.NewStdLog(s.log)))(h)
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout time.Duration) error {
	srv := &http.Server{
		Addr:        addr,
		Handler:     s.Handler(),
		ReadTimeout: readTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("Inspect server listening", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("Inspect server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

type dnaJSON struct {
	Name   string `json:"name"`
	Gender uint16 `json:"gender"`
	Age    uint16 `json:"age"`
}

type poolJSON struct {
	DB           string    `json:"db"`
	Complexity   string    `json:"complexity"`
	MaxLOD       uint16    `json:"max_lod"`
	Mask         string    `json:"mask"`
	DNAs         []dnaJSON `json:"dnas"`
	VertexCounts []uint32  `json:"vertex_counts"`
	Joints       []string  `json:"joints"`
	JointGroups  int       `json:"joint_groups"`
}

type vertexJSON struct {
	Position [3]float32 `json:"position"`
	Joints   []uint16   `json:"joints"`
	Weights  []float32  `json:"weights"`
}

type jointJSON struct {
	Name        string     `json:"name"`
	Parent      uint16     `json:"parent"`
	Translation [3]float32 `json:"translation"`
	Rotation    [3]float32 `json:"rotation"`
}

type blendShapeJSON struct {
	Vertices []uint32     `json:"vertices"`
	Deltas   [][3]float32 `json:"deltas"`
}

type jointGroupJSON struct {
	Inputs  []uint16  `json:"inputs"`
	Outputs []uint16  `json:"outputs"`
	Values  []float32 `json:"values"`
}

func (s *Server) handlePool(w http.ResponseWriter, r *http.Request) {
	md := s.pool.MetaData()
	out := poolJSON{
		DB:           md.DBName,
		Complexity:   md.DBComplexity,
		MaxLOD:       md.DBMaxLOD,
		Mask:         s.pool.Mask().String(),
		DNAs:         make([]dnaJSON, 0, len(md.DNAs)),
		VertexCounts: md.VertexCounts,
		Joints:       md.JointNames,
		JointGroups:  s.pool.JointGroupCount(),
	}
	for _, d := range md.DNAs {
		out.DNAs = append(out.DNAs, dnaJSON{Name: d.Name, Gender: d.Gender, Age: d.Age})
	}
	writeJSON(w, out)
}

func (s *Server) handleVertex(w http.ResponseWriter, r *http.Request) {
	dna, mesh, vertex := index(r, "dna"), index(r, "mesh"), index(r, "vertex")
	if !s.validDNA(dna) || mesh >= s.pool.MeshCount() || vertex >= s.pool.VertexCount(mesh) {
		writeError(w, http.StatusNotFound, fmt.Errorf("%w: dna %d mesh %d vertex %d", errNotFound, dna, mesh, vertex))
		return
	}
	joints, weights := s.pool.SkinWeights(dna, mesh, vertex)
	writeJSON(w, vertexJSON{
		Position: s.pool.VertexPosition(dna, mesh, vertex).Array(),
		Joints:   joints,
		Weights:  weights,
	})
}

func (s *Server) handleJoint(w http.ResponseWriter, r *http.Request) {
	dna, joint := index(r, "dna"), index(r, "joint")
	if !s.validDNA(dna) || joint >= s.pool.JointCount() {
		writeError(w, http.StatusNotFound, fmt.Errorf("%w: dna %d joint %d", errNotFound, dna, joint))
		return
	}
	md := s.pool.MetaData()
	out := jointJSON{
		Name:        md.JointName(joint),
		Translation: s.pool.JointTranslation(dna, joint).Array(),
		Rotation:    s.pool.JointRotation(dna, joint).Array(),
	}
	if joint < len(md.JointParents) {
		out.Parent = md.JointParents[joint]
	}
	writeJSON(w, out)
}

func (s *Server) handleBlendShape(w http.ResponseWriter, r *http.Request) {
	dna, mesh, target := index(r, "dna"), index(r, "mesh"), index(r, "target")
	if !s.validDNA(dna) || target >= s.pool.BlendShapeTargetCount(mesh) {
		writeError(w, http.StatusNotFound, fmt.Errorf("%w: dna %d mesh %d target %d", errNotFound, dna, mesh, target))
		return
	}
	vertices, deltas := s.pool.BlendShapeDeltas(dna, mesh, target)
	out := blendShapeJSON{Vertices: vertices, Deltas: make([][3]float32, len(deltas))}
	for i, d := range deltas {
		out.Deltas[i] = d.Array()
	}
	writeJSON(w, out)
}

func (s *Server) handleJointGroup(w http.ResponseWriter, r *http.Request) {
	dna, group := index(r, "dna"), index(r, "group")
	if !s.validDNA(dna) || group >= s.pool.JointGroupCount() {
		writeError(w, http.StatusNotFound, fmt.Errorf("%w: dna %d group %d", errNotFound, dna, group))
		return
	}
	inputs, outputs, values := s.pool.JointGroupValues(dna, group)
	writeJSON(w, jointGroupJSON{Inputs: inputs, Outputs: outputs, Values: values})
}

func (s *Server) validDNA(dna int) bool {
	return dna < s.pool.DNACount()
}

// index parses a numeric route variable. Routes only match digits, so the
// only failure is overflow, which maps to an index that is always out of
// range.
func index(r *http.Request, name string) int {
	v, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil || v < 0 {
		return int(^uint(0) >> 1)
	}
	return v
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	res, err := json.Marshal(data)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(res)
}

func writeError(w http.ResponseWriter, status int, err error) {
	type jError struct {
		Error string `json:"error"`
	}
	res, _ := json.Marshal(&jError{Error: err.Error()})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(res)
}
