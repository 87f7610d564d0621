package model

import (
	"encoding/json"
	"io"
	"os"

	"github.com/YuminosukeSato/treeboost/pkg/errors"
)

// SaveJSON はvをJSONとしてファイルに保存する
//
// 使用例:
//
//	err := model.SaveJSON(ensemble, "model.json")
func SaveJSON(v interface{}, filename string) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", filename)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "failed to close %s", filename)
		}
	}()
	return WriteJSON(v, file)
}

// LoadJSON はファイルからJSONを読み込みvへデコードする
func LoadJSON(v interface{}, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return errors.Wrapf(err, "failed to open %s", filename)
	}
	defer file.Close()
	return ReadJSON(v, file)
}

// WriteJSON はvをインデント付きJSONとしてwへ書き込む
func WriteJSON(v interface{}, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "failed to encode model")
	}
	return nil
}

// ReadJSON はrからJSONを1つ読み込みvへデコードする
func ReadJSON(v interface{}, r io.Reader) error {
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return errors.Wrap(err, "failed to decode model")
	}
	return nil
}
